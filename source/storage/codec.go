package storage

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/tim-hardcastle/scanscript/source/values"
)

// The persistent backends store each value as one of these.
type record struct {
	T     values.ValueType `json:"t"`
	Int   int64            `json:"i,omitempty"`
	Bool  bool             `json:"b,omitempty"`
	Str   string           `json:"s,omitempty"`
	Data  []byte           `json:"d,omitempty"`
	Items []record         `json:"a,omitempty"`
}

func toRecord(v values.Value) (record, error) {
	r := record{T: v.T}
	switch v.T {
	case values.NULL:
	case values.INT:
		r.Int = v.V.(int64)
	case values.BOOL:
		r.Bool = v.V.(bool)
	case values.STRING:
		r.Str = v.V.(string)
	case values.DATA:
		r.Data = v.V.([]byte)
	case values.ARRAY:
		for _, e := range values.Elements(v) {
			item, err := toRecord(e)
			if err != nil {
				return r, err
			}
			r.Items = append(r.Items, item)
		}
	default:
		return r, fmt.Errorf("can't store a value of type %s", values.TypeName(v.T))
	}
	return r, nil
}

func fromRecord(r record) (values.Value, error) {
	switch r.T {
	case values.NULL:
		return values.NULL_VALUE, nil
	case values.INT:
		return values.Int(r.Int), nil
	case values.BOOL:
		return values.Bool(r.Bool), nil
	case values.STRING:
		return values.String(r.Str), nil
	case values.DATA:
		if r.Data == nil {
			return values.Data([]byte{}), nil
		}
		return values.Data(r.Data), nil
	case values.ARRAY:
		elems := make([]values.Value, 0, len(r.Items))
		for _, item := range r.Items {
			e, err := fromRecord(item)
			if err != nil {
				return values.Value{}, err
			}
			elems = append(elems, e)
		}
		return values.Array(elems...), nil
	}
	return values.Value{}, fmt.Errorf("unknown value type %d", r.T)
}

func EncodeValue(v values.Value) ([]byte, error) {
	r, err := toRecord(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

func DecodeValue(b []byte) (values.Value, error) {
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		return values.Value{}, err
	}
	return fromRecord(r)
}

func EncodeList(vals []values.Value) ([]byte, error) {
	rs := make([]record, 0, len(vals))
	for _, v := range vals {
		r, err := toRecord(v)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return json.Marshal(rs)
}

func DecodeList(b []byte) ([]values.Value, error) {
	var rs []record
	if err := json.Unmarshal(b, &rs); err != nil {
		return nil, err
	}
	result := make([]values.Value, 0, len(rs))
	for _, r := range rs {
		v, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}
