package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/builtins/crypto"
	"github.com/tim-hardcastle/scanscript/source/builtins/kb"
	"github.com/tim-hardcastle/scanscript/source/builtins/misc"
	"github.com/tim-hardcastle/scanscript/source/builtins/ssh"
	"github.com/tim-hardcastle/scanscript/source/hub"
	"github.com/tim-hardcastle/scanscript/source/repl"
	"github.com/tim-hardcastle/scanscript/source/settings"
	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/storage/badgerstore"
	"github.com/tim-hardcastle/scanscript/source/storage/sqlstore"
	"github.com/tim-hardcastle/scanscript/source/text"
	"github.com/tim-hardcastle/scanscript/source/vm"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "YAML configuration file")
	plain := flag.Bool("plain", false, "no colors in output")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Usage = func() { fmt.Fprint(os.Stderr, text.HELP) }
	flag.Parse()
	if *version {
		fmt.Println(text.VERSION)
		return 0
	}

	cfg, err := settings.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		log.WithError(err).Error("can't open the knowledge base")
		return 2
	}
	defer store.Close()
	sessions := ssh.New(cfg.Ssh.Timeout, log)
	defer sessions.Close()

	registry, err := newRegistry(cfg, log, kb.New(store).Module(), sessions.Module())
	if err != nil {
		log.WithError(err).Error("can't start")
		return 2
	}
	machine := vm.New(registry, vm.PolicyFrom(cfg.Retry), log)
	hb := hub.New(machine, registry, os.Stdout)
	if *plain {
		hb.Plain()
	}

	if flag.NArg() > 0 {
		for _, script := range flag.Args() {
			if !hb.Run(ctx, script) {
				return 1
			}
		}
		return 0
	}
	if !*plain {
		fmt.Print(text.Logo())
	}
	repl.Start(ctx, hb)
	return 0
}

func newLogger(cfg settings.LogConfig) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	log.SetLevel(level)
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

func openStore(ctx context.Context, cfg settings.StorageConfig, log logrus.FieldLogger) (storage.Store, error) {
	switch cfg.Backend {
	case "badger":
		s, err := badgerstore.Open(cfg.BadgerDir, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sql":
		s, err := sqlstore.Open(ctx, cfg.SqlDriver, cfg.SqlDsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory", "":
		return storage.NewMemory(), nil
	}
	return nil, errors.Errorf("unknown storage backend %q", cfg.Backend)
}

// newRegistry puts the modules in order of precedence. The stateless modules come
// first, so nothing that keeps state can hide one of their functions.
func newRegistry(cfg settings.Config, log logrus.FieldLogger, stateful ...builtins.Module) (*builtins.Registry, error) {
	modules := append([]builtins.Module{crypto.Module(), misc.Module()}, stateful...)
	if cfg.StrictRegistry {
		return builtins.NewStrict(modules...)
	}
	return builtins.New(log, modules...), nil
}
