package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/config"
	"ecommerce-keyword-report/internal/fetch"
	"ecommerce-keyword-report/internal/metrics"
	"ecommerce-keyword-report/internal/server"
	"ecommerce-keyword-report/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", "", "configuration file (TOML)")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	l := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Component: "server"})

	rules, err := cfg.Categorizer()
	if err != nil {
		l.Error().Err(err).Msg("load rules")
		os.Exit(1)
	}
	cat := categorizer.New(rules)

	client := fetch.NewHTTPClient(
		time.Duration(cfg.Server.FetchTimeoutSeconds)*time.Second,
		5*time.Second,
		int64(cfg.Server.FetchSizeCapMB)<<20,
	)
	client.RestrictRedirects(cfg.Server.AllowedHosts)

	// no column hints: the UI asks for the column explicitly
	an := analyzer.New(cat, client)

	presets := make([]server.Preset, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		presets = append(presets, server.Preset{Name: p.Name, Source: p.Path, Sheet: p.Sheet, Column: p.Column})
	}

	srv := server.New(an, l, metrics.New(), server.Options{
		Addr:         cfg.Server.Addr,
		UploadLimit:  int64(cfg.Server.UploadLimitMB) << 20,
		PreviewRows:  cfg.Server.PreviewRows,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		DataRoot:     cfg.Server.DataRoot,
		AllowedHosts: cfg.Server.AllowedHosts,
		Presets:      presets,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().
		Int("rules", len(cat.Rules())).
		Int("stopwords", len(cat.Stopwords())).
		Int("presets", len(presets)).
		Str("data_root", cfg.Server.DataRoot).
		Msg("categorizer ready")

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
