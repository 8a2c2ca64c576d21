package main

import (
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"ecommerce-keyword-report/internal/analyzer"
	"ecommerce-keyword-report/internal/categorizer"
	"ecommerce-keyword-report/internal/config"
	"ecommerce-keyword-report/internal/fetch"
	"ecommerce-keyword-report/pkg/logger"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger writes to the command's stderr so report output on stdout stays clean.
func (c *commandContext) logger(cmd *cobra.Command) *logger.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logger.Nop()
	}
	return logger.New(logger.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Component: "cli",
		Writer:    cmd.ErrOrStderr(),
	})
}

// categorizer resolves the rule tables, letting rulesFile override the config.
func (c *commandContext) categorizer(rulesFile string) (*categorizer.Categorizer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	local := *cfg
	if rulesFile = strings.TrimSpace(rulesFile); rulesFile != "" {
		local.Analysis.RulesFile = rulesFile
	}
	cc, err := local.Categorizer()
	if err != nil {
		return nil, err
	}
	return categorizer.New(cc), nil
}

func (c *commandContext) analyzer(rulesFile string) (*analyzer.Analyzer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cat, err := c.categorizer(rulesFile)
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewHTTPClient(
		time.Duration(cfg.Server.FetchTimeoutSeconds)*time.Second,
		5*time.Second,
		int64(cfg.Server.FetchSizeCapMB)<<20,
	)
	return analyzer.New(cat, fetcher, cfg.Input.ColumnHints...), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// stringFlag prefers an explicitly set flag over the configured fallback.
func stringFlag(cmd *cobra.Command, name, value, fallback string) string {
	if cmd.Flags().Changed(name) {
		return strings.TrimSpace(value)
	}
	return fallback
}
