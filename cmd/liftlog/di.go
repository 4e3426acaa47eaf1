package main

import (
	"io"
	"log/slog"

	"liftlog/internal/assistant"
	"liftlog/internal/chat"
	"liftlog/internal/config"
	"liftlog/internal/logging"
	"liftlog/internal/storage"

	"github.com/samber/do"
	"github.com/samber/oops"
)

// env is a configured process: logging set up and services registered.
type env struct {
	cfg    *config.Config
	di     *do.Injector
	logger io.Closer
}

// bootstrap loads the configuration, initializes logging and registers the
// services. Services are built on first use.
func bootstrap(logOpts logging.Options) (*env, error) {
	logging.Preinit()

	cfg, err := config.Load()
	if err != nil {
		return nil, oops.Wrapf(err, "failed to load config")
	}

	logger, err := logging.Init(cfg, logOpts)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to initialize logging")
	}

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, newKV)
	do.Provide(di, newStore)
	do.Provide(di, newGenerator)
	do.Provide(di, newSession)

	return &env{cfg: cfg, di: di, logger: logger}, nil
}

// Close shuts the services down in reverse order, which drains the store's
// pending writes, then releases the log file.
func (e *env) Close() {
	if err := e.di.Shutdown(); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
	_ = e.logger.Close()
}

func newKV(i *do.Injector) (storage.KV, error) {
	cfg := do.MustInvoke[*config.Config](i)
	kv, err := storage.NewFileKV(cfg.GetDataDir())
	if err != nil {
		return nil, oops.With("data_dir", cfg.GetDataDir()).Wrap(err)
	}
	return kv, nil
}

func newStore(i *do.Injector) (*storage.Store, error) {
	kv, err := do.Invoke[storage.KV](i)
	if err != nil {
		return nil, err
	}
	return storage.Open(kv), nil
}

func newGenerator(i *do.Injector) (assistant.Generator, error) {
	return assistant.NewFromConfig(do.MustInvoke[*config.Config](i))
}

func newSession(i *do.Injector) (*chat.Session, error) {
	cfg := do.MustInvoke[*config.Config](i)
	gen, err := do.Invoke[assistant.Generator](i)
	if err != nil {
		return nil, err
	}
	store, err := do.Invoke[*storage.Store](i)
	if err != nil {
		return nil, err
	}
	return chat.NewSession(gen, store,
		chat.WithTimeout(cfg.Assistant.Timeout),
		chat.WithModel(cfg.Assistant.Model),
	), nil
}
