package set

import (
	"fmt"
	"sort"
	"strings"
)

type Set[E comparable] map[E]struct{}

func MakeFromSlice[E comparable](slice []E) Set[E] {
	S := Set[E]{}
	for _, v := range slice {
		S.Add(v)
	}
	return S
}

func (S Set[E]) Add(e E) {
	S[e] = struct{}{}
}

func (S Set[E]) Contains(e E) bool {
	_, found := S[e]
	return found
}

func (S Set[E]) IsEmpty() bool {
	return len(S) == 0
}

// ToSlice gives the elements in no particular order.
func (S Set[E]) ToSlice() []E {
	result := make([]E, 0, len(S))
	for e := range S {
		result = append(result, e)
	}
	return result
}

// String sorts the elements by their printed form, so that it's the same every time.
func (S Set[E]) String() string {
	parts := []string{}
	for e := range S {
		parts = append(parts, fmt.Sprintf("%v", e))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
