// Package main is the entrypoint for phoned, the phone number lookup service.
// It serves parsing, formatting, as-you-type formatting and number finding
// over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/aelexs/phonekit/internal/config"
	"github.com/aelexs/phonekit/internal/lookup"
	"github.com/aelexs/phonekit/internal/observability"
	"github.com/aelexs/phonekit/internal/server"
	"github.com/aelexs/phonekit/pkg/metadata"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:   "phoned",
		Routes: routes,
	}, nil)
}

// routes wires the metadata source, engine and lookup service into r.
func routes(r chi.Router, cfg *config.Config, logger *slog.Logger) error {
	provider, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}

	leniency, err := phonenumbers.ParseLeniency(cfg.Phone.Leniency)
	if err != nil {
		return fmt.Errorf("phone leniency: %w", err)
	}

	svc := lookup.NewService(lookup.Config{
		Util:          phonenumbers.New(provider, provider.Index()),
		Logger:        logger,
		DefaultRegion: cfg.Phone.DefaultRegion,
		Leniency:      leniency,
		MaxTries:      cfg.Phone.MaxTries,
	})
	lookup.NewHandler(svc, logger).Routes(r)
	return nil
}

// newProvider reads metadata from cfg.Metadata.Dir, or from the embedded
// data set when no directory is configured.
func newProvider(cfg *config.Config, logger *slog.Logger) (*metadata.FSProvider, error) {
	opts := []metadata.Option{
		metadata.WithLogger(logger),
		metadata.WithLoadHook(observability.MetadataLoadHook()),
	}

	if cfg.Metadata.Dir == "" {
		return metadata.NewFSProvider(metadata.EmbeddedFS(), metadata.DefaultIndex(), opts...), nil
	}

	info, err := os.Stat(cfg.Metadata.Dir)
	if err != nil {
		return nil, fmt.Errorf("metadata dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("metadata dir %s is not a directory", cfg.Metadata.Dir)
	}
	fsys := os.DirFS(cfg.Metadata.Dir)
	idx, err := metadata.ScanIndex(fsys)
	if err != nil {
		return nil, fmt.Errorf("metadata dir %s: %w", cfg.Metadata.Dir, err)
	}
	logger.Info("using metadata directory",
		slog.String("dir", cfg.Metadata.Dir),
		slog.Int("regions", len(idx.SupportedRegions())),
		slog.Int("calling_codes", len(idx.SupportedCallingCodes())),
	)
	return metadata.NewFSProvider(fsys, idx, opts...), nil
}
