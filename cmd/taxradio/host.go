package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-taxradio/internal/config"
	"github.com/goliatone/go-taxradio/pkg/fieldgroups"
	"github.com/goliatone/go-taxradio/pkg/host"
	"github.com/goliatone/go-taxradio/pkg/host/cached"
	"github.com/goliatone/go-taxradio/pkg/host/memhost"
	"github.com/goliatone/go-taxradio/pkg/host/pghost"
	"github.com/goliatone/go-taxradio/pkg/host/yamlhost"
)

// runtimeHost is the host the commands run against, with the optional
// capabilities the chosen backend offers.
type runtimeHost struct {
	host.Host
	Writer      host.AssignmentWriter
	Verifier    host.NonceVerifier
	Registrar   host.MetaboxRegistrar
	FieldGroups *fieldgroups.Registry
	Memory      *memhost.Store
	closeFn     func() error
}

func (h *runtimeHost) Close() error {
	if h == nil || h.closeFn == nil {
		return nil
	}
	return h.closeFn()
}

func openHost(ctx context.Context, cfg config.Config, logger *zap.Logger) (*runtimeHost, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case cfg.Fixture != "":
		loaded, err := yamlhost.LoadFile(ctx, cfg.Fixture, memhost.WithNonceSecret(cfg.NonceSecret))
		if err != nil {
			return nil, err
		}
		if err := loaded.FieldGroups.RegisterAll(ctx, loaded.Store); err != nil {
			return nil, err
		}
		logger.Debug("fixture host loaded",
			zap.String("fixture", cfg.Fixture),
			zap.Int("taxonomies", len(loaded.Store.Taxonomies())),
			zap.Int("field_groups", len(loaded.Store.FieldGroups())),
		)
		return wrap(&runtimeHost{
			Host:        loaded.Store,
			Writer:      loaded.Store,
			Verifier:    loaded.Store,
			Registrar:   loaded.Store,
			FieldGroups: loaded.FieldGroups,
			Memory:      loaded.Store,
		}, cfg)
	case cfg.PostgresDSN != "":
		store, err := pghost.Open(ctx, cfg.PostgresDSN, pghost.WithNonceSecret(cfg.NonceSecret))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("prepare schema: %w", err)
		}
		logger.Debug("postgres host connected")
		return wrap(&runtimeHost{
			Host:     store,
			Writer:   store,
			Verifier: store,
			closeFn:  store.Close,
		}, cfg)
	default:
		return nil, fmt.Errorf("either --fixture or --dsn is required")
	}
}

func wrap(h *runtimeHost, cfg config.Config) (*runtimeHost, error) {
	if cfg.CacheSize <= 0 {
		return h, nil
	}
	c, err := cached.New(h.Host, cfg.CacheSize)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	h.Host = c
	return h, nil
}
