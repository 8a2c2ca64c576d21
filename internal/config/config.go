// Package config loads the TOML settings shared by the report CLI and the UI server,
// applies KWCAT_* environment overrides, and resolves the categorizer tables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvPrefix namespaces every environment override.
const EnvPrefix = "KWCAT_"

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrPresetNotFound = errors.New("preset not found")
)

type Input struct {
	Sheet       string   `toml:"sheet"`
	Column      string   `toml:"column"`
	ColumnHints []string `toml:"column_hints"`
}

type Report struct {
	OutputDir   string `toml:"output_dir"`
	DetailFile  string `toml:"detail_file"`
	SummaryFile string `toml:"summary_file"`
	Format      string `toml:"format"`
}

// Analysis points at an optional rule file and extends the stopword list.
type Analysis struct {
	RulesFile      string   `toml:"rules_file"`
	ExtraStopwords []string `toml:"extra_stopwords"`
}

// Server also bounds what the UI may read: DataRoot confines local paths and
// AllowedHosts lists the remote hosts a URL may name. Empty means unrestricted.
type Server struct {
	Addr                string   `toml:"addr"`
	UploadLimitMB       int      `toml:"upload_limit_mb"`
	PreviewRows         int      `toml:"preview_rows"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
	FetchTimeoutSeconds int      `toml:"fetch_timeout_seconds"`
	FetchSizeCapMB      int      `toml:"fetch_size_cap_mb"`
	DataRoot            string   `toml:"data_root"`
	AllowedHosts        []string `toml:"allowed_hosts"`
}

// Preset is a named quick analysis: a source and the column to categorize.
type Preset struct {
	Name   string `toml:"name"`
	Path   string `toml:"path"`
	Sheet  string `toml:"sheet"`
	Column string `toml:"column"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Input    Input    `toml:"input"`
	Report   Report   `toml:"report"`
	Analysis Analysis `toml:"analysis"`
	Server   Server   `toml:"server"`
	Logging  Logging  `toml:"logging"`
	Presets  []Preset `toml:"presets"`
}

func Default() Config {
	return Config{
		Input: Input{
			ColumnHints: []string{"prerequisite", "pre"},
		},
		Report: Report{
			OutputDir:   ".",
			DetailFile:  "ecommerce_keyword_detailed.csv",
			SummaryFile: "ecommerce_keyword_summary.csv",
			Format:      "console",
		},
		Server: Server{
			Addr:                ":8080",
			UploadLimitMB:       32,
			PreviewRows:         10,
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 60,
			FetchTimeoutSeconds: 20,
			FetchSizeCapMB:      20,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path (or $KWCAT_CONFIG, or ./kwreport.toml when present), then applies
// environment overrides. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG"))
	}
	if path == "" {
		explicit = false
		path = "kwreport.toml"
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := env("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := env("RULES_FILE"); v != "" {
		c.Analysis.RulesFile = v
	}
	if v := env("OUTPUT_DIR"); v != "" {
		c.Report.OutputDir = v
	}
	if v := env("DATA_ROOT"); v != "" {
		c.Server.DataRoot = v
	}
	if v := env("UPLOAD_LIMIT_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sUPLOAD_LIMIT_MB must be an integer (got %q)", ErrInvalidConfig, EnvPrefix, v)
		}
		c.Server.UploadLimitMB = n
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func (c *Config) normalize() {
	c.Input.Sheet = strings.TrimSpace(c.Input.Sheet)
	c.Input.Column = strings.TrimSpace(c.Input.Column)
	c.Report.Format = strings.ToLower(strings.TrimSpace(c.Report.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Analysis.RulesFile = strings.TrimSpace(c.Analysis.RulesFile)
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "."
	}
	c.Server.DataRoot = strings.TrimSpace(c.Server.DataRoot)
	for i, h := range c.Server.AllowedHosts {
		c.Server.AllowedHosts[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for i := range c.Presets {
		p := &c.Presets[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Path = strings.TrimSpace(p.Path)
		p.Sheet = strings.TrimSpace(p.Sheet)
		p.Column = strings.TrimSpace(p.Column)
	}
}

func (c *Config) Validate() error {
	switch c.Report.Format {
	case "console", "json", "ndjson", "html":
	default:
		return fmt.Errorf("%w: report.format must be console, json, ndjson or html (got %q)", ErrInvalidConfig, c.Report.Format)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json (got %q)", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Report.DetailFile == "" || c.Report.SummaryFile == "" {
		return fmt.Errorf("%w: report.detail_file and report.summary_file must be set", ErrInvalidConfig)
	}
	if c.Server.UploadLimitMB <= 0 {
		return fmt.Errorf("%w: server.upload_limit_mb must be positive", ErrInvalidConfig)
	}
	if c.Server.PreviewRows <= 0 {
		return fmt.Errorf("%w: server.preview_rows must be positive", ErrInvalidConfig)
	}
	if c.Server.FetchSizeCapMB <= 0 || c.Server.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: server fetch limits must be positive", ErrInvalidConfig)
	}
	for _, h := range c.Server.AllowedHosts {
		if h == "" || h == "." {
			return fmt.Errorf("%w: server.allowed_hosts entries must name a host", ErrInvalidConfig)
		}
	}
	seen := make(map[string]bool, len(c.Presets))
	for i, p := range c.Presets {
		if p.Name == "" || p.Path == "" {
			return fmt.Errorf("%w: presets[%d] needs a name and a path", ErrInvalidConfig, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate preset %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// Preset looks up a quick analysis by name.
func (c *Config) Preset(name string) (Preset, error) {
	name = strings.TrimSpace(name)
	for _, p := range c.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
}

// DetailPath and SummaryPath join the CSV names onto the output directory.
func (c *Config) DetailPath() string  { return filepath.Join(c.Report.OutputDir, c.Report.DetailFile) }
func (c *Config) SummaryPath() string { return filepath.Join(c.Report.OutputDir, c.Report.SummaryFile) }

// Sample returns the annotated default configuration file.
func Sample() string { return sampleConfig }

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
