package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ShafaqShahid/LoadTestGMC/pkg/fileutil"
)

type Config struct {
	//===============
	// Merge behaviour
	//===============
	// Number of per-file worker goroutines. Files are independent until the
	// final reduction, so each worker owns its own accumulator state.
	concurrency int

	//===============
	// Bounded memory
	//===============
	// Capacity of the retained-error ring buffer
	errorSampleCap int
	// Length at which sampled URLs are truncated
	urlTruncateLen int
	// Per-line byte cap; longer lines are discarded, not fatal
	maxLineBytes int

	//===============
	// Observability
	//===============
	// Emit a progress record every N lines (0 disables)
	progressEvery int64
	// Minimum level for recorded output: debug, info, warn, error
	logLevel string

	//===============
	// History
	//===============
	// Directory of the run-history store; empty disables history
	historyDir string
}

type configDTO struct {
	Concurrency    int    `json:"concurrency,omitempty" yaml:"concurrency"`
	ErrorSampleCap int    `json:"errorSampleCap,omitempty" yaml:"error_sample_cap"`
	URLTruncateLen int    `json:"urlTruncateLen,omitempty" yaml:"url_truncate_len"`
	MaxLineBytes   int    `json:"maxLineBytes,omitempty" yaml:"max_line_bytes"`
	ProgressEvery  int64  `json:"progressEvery,omitempty" yaml:"progress_every"`
	LogLevel       string `json:"logLevel,omitempty" yaml:"log_level"`
	HistoryDir     string `json:"historyDir,omitempty" yaml:"history_dir"`
}

const (
	defaultConcurrency    = 1
	defaultErrorSampleCap = 20
	defaultURLTruncateLen = 120
	defaultMaxLineBytes   = 16 * 1024 * 1024
	defaultProgressEvery  = 100000
	defaultLogLevel       = "info"
)

type ConfigBuilder struct {
	cfg Config
}

// WithDefault starts a builder from the default configuration.
func WithDefault() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: Config{
			concurrency:    defaultConcurrency,
			errorSampleCap: defaultErrorSampleCap,
			urlTruncateLen: defaultURLTruncateLen,
			maxLineBytes:   defaultMaxLineBytes,
			progressEvery:  defaultProgressEvery,
			logLevel:       defaultLogLevel,
		},
	}
}

func (b *ConfigBuilder) WithConcurrency(concurrency int) *ConfigBuilder {
	b.cfg.concurrency = concurrency
	return b
}

func (b *ConfigBuilder) WithErrorSampleCap(cap int) *ConfigBuilder {
	b.cfg.errorSampleCap = cap
	return b
}

func (b *ConfigBuilder) WithURLTruncateLen(l int) *ConfigBuilder {
	b.cfg.urlTruncateLen = l
	return b
}

func (b *ConfigBuilder) WithMaxLineBytes(n int) *ConfigBuilder {
	b.cfg.maxLineBytes = n
	return b
}

func (b *ConfigBuilder) WithProgressEvery(n int64) *ConfigBuilder {
	b.cfg.progressEvery = n
	return b
}

func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.logLevel = level
	return b
}

func (b *ConfigBuilder) WithHistoryDir(dir string) *ConfigBuilder {
	b.cfg.historyDir = dir
	return b
}

func (b *ConfigBuilder) Build() (Config, error) {
	if b.cfg.concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1", ErrInvalidConfig)
	}
	if b.cfg.errorSampleCap < 1 {
		return Config{}, fmt.Errorf("%w: errorSampleCap must be at least 1", ErrInvalidConfig)
	}
	if b.cfg.urlTruncateLen < 1 {
		return Config{}, fmt.Errorf("%w: urlTruncateLen must be at least 1", ErrInvalidConfig)
	}
	if b.cfg.maxLineBytes < 1 {
		return Config{}, fmt.Errorf("%w: maxLineBytes must be at least 1", ErrInvalidConfig)
	}
	if b.cfg.progressEvery < 0 {
		return Config{}, fmt.Errorf("%w: progressEvery cannot be negative", ErrInvalidConfig)
	}
	return b.cfg, nil
}

// WithConfigFile builds a Config from a JSON or YAML file, selected by
// extension; unset fields keep their defaults.
func WithConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigFileUnreadable, err)
	}

	var dto configDTO
	switch strings.ToLower(fileutil.GetFileExtension(path)) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(raw, &dto); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileInvalid, err)
		}
	default:
		if err := json.Unmarshal(raw, &dto); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileInvalid, err)
		}
	}

	builder := WithDefault()
	if dto.Concurrency > 0 {
		builder = builder.WithConcurrency(dto.Concurrency)
	}
	if dto.ErrorSampleCap > 0 {
		builder = builder.WithErrorSampleCap(dto.ErrorSampleCap)
	}
	if dto.URLTruncateLen > 0 {
		builder = builder.WithURLTruncateLen(dto.URLTruncateLen)
	}
	if dto.MaxLineBytes > 0 {
		builder = builder.WithMaxLineBytes(dto.MaxLineBytes)
	}
	if dto.ProgressEvery > 0 {
		builder = builder.WithProgressEvery(dto.ProgressEvery)
	}
	if dto.LogLevel != "" {
		builder = builder.WithLogLevel(dto.LogLevel)
	}
	if dto.HistoryDir != "" {
		builder = builder.WithHistoryDir(dto.HistoryDir)
	}
	return builder.Build()
}

func (c *Config) Concurrency() int {
	return c.concurrency
}

func (c *Config) ErrorSampleCap() int {
	return c.errorSampleCap
}

func (c *Config) URLTruncateLen() int {
	return c.urlTruncateLen
}

func (c *Config) MaxLineBytes() int {
	return c.maxLineBytes
}

func (c *Config) ProgressEvery() int64 {
	return c.progressEvery
}

func (c *Config) LogLevel() string {
	return c.logLevel
}

func (c *Config) HistoryDir() string {
	return c.historyDir
}
