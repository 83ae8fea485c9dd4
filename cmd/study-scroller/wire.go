// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/study-scroller/internal/app"
	"github.com/pdiddy/study-scroller/internal/catalog"
	"github.com/pdiddy/study-scroller/internal/feed"
	"github.com/pdiddy/study-scroller/internal/httputil"
	"github.com/pdiddy/study-scroller/internal/library"
	"github.com/pdiddy/study-scroller/internal/sources"
	"github.com/pdiddy/study-scroller/pkg/types"
)

// components are the long-lived pieces shared by every command.
type components struct {
	cfg       types.AppConfig
	catalog   *catalog.Catalog
	assembler *feed.Assembler
	library   *library.Store
}

func (c *components) Close() error {
	return c.library.Close()
}

// buildComponents loads the config and opens the library.
func buildComponents() (*components, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	store, err := library.Open(cfg.Library, logger.WithPrefix("library"))
	if err != nil {
		return nil, err
	}
	logger.Debug("library opened", "backend", cfg.Library.Backend, "dir", cfg.Library.DataDir)

	return &components{
		cfg:       cfg,
		catalog:   cat,
		assembler: newAssembler(cfg.Feed, cat),
		library:   store,
	}, nil
}

func newAssembler(cfg types.FeedConfig, cat *catalog.Catalog) *feed.Assembler {
	client := httputil.NewClient(cfg.HTTPConfig, logger.WithPrefix("http"))
	return &feed.Assembler{
		Scholarly: sources.NewOpenAlex(client, cfg, logger.WithPrefix("openalex")),
		Drug:      sources.NewOpenFDA(client, cfg, logger.WithPrefix("openfda")),
		Fallback:  cat.SampleCardsCopy,
		Log:       logger.WithPrefix("feed"),
	}
}

// controller builds an app controller over the components with the given
// platform capabilities filled in.
func (c *components) controller(deps app.Deps) *app.Controller {
	deps.Catalog = c.catalog
	deps.Assembler = c.assembler
	deps.Library = c.library
	deps.Log = logger
	return app.New(deps)
}
