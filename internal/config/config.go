package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scig/internal/descriptor"
	"scig/internal/factory"
	"scig/internal/source"

	"gopkg.in/yaml.v3"
)

// Config holds all scig configuration.
type Config struct {
	// Geometry system being built
	System    string `yaml:"system"`
	Variation string `yaml:"variation"`

	// Descriptor parsing
	Parser ParserConfig `yaml:"parser"`

	// Publishing backend
	Factory FactoryConfig `yaml:"factory"`

	// Object store for s3:// descriptor locations
	S3 S3Config `yaml:"s3"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Metrics export
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ParserConfig configures descriptor parsing.
type ParserConfig struct {
	Separator          string `yaml:"separator"`       // single character between number and unit
	PolyconeLayout     string `yaml:"polycone_layout"` // z-inner-outer, inner-outer-z
	IdentifierTemplate string `yaml:"identifier_template"`
	Workers            int    `yaml:"workers"` // 0 = GOMAXPROCS
}

// FactoryConfig selects where volumes are published.
type FactoryConfig struct {
	Kind      string `yaml:"kind"` // text, sqlite, postgres
	OutputDir string `yaml:"output_dir"`
	DSN       string `yaml:"dsn"`
}

// S3Config configures the S3-compatible descriptor source.
type S3Config struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty = no export
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		System:    "scig",
		Variation: "default",

		Parser: ParserConfig{
			Separator:      string(rune(descriptor.DefaultOptions().Separator)),
			PolyconeLayout: string(descriptor.LayoutZInnerOuter),
		},

		Factory: FactoryConfig{
			Kind:      string(factory.KindText),
			OutputDir: ".",
		},

		S3: S3Config{
			Region: "us-east-1",
		},

		Watch: WatchConfig{
			Debounce: "500ms",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if kind := os.Getenv("SCIG_FACTORY"); kind != "" {
		c.Factory.Kind = kind
	}
	if dsn := os.Getenv("SCIG_DSN"); dsn != "" {
		c.Factory.DSN = dsn
	}
	if dir := os.Getenv("SCIG_OUTPUT_DIR"); dir != "" {
		c.Factory.OutputDir = dir
	}

	if region := os.Getenv("SCIG_S3_REGION"); region != "" {
		c.S3.Region = region
	}
	if endpoint := os.Getenv("SCIG_S3_ENDPOINT"); endpoint != "" {
		c.S3.Endpoint = endpoint
	}
	if v := os.Getenv("SCIG_S3_PATH_STYLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.S3.PathStyle = b
		}
	}
	// Credentials come from the standard AWS variables when set.
	if id := os.Getenv("AWS_ACCESS_KEY_ID"); id != "" {
		c.S3.AccessKeyID = id
		c.S3.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	if level := os.Getenv("SCIG_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ParseOptions converts the parser section to descriptor options.
func (c *Config) ParseOptions() (descriptor.Options, error) {
	opts := descriptor.Options{
		PolyconeLayout:     descriptor.PolyconeLayout(c.Parser.PolyconeLayout),
		IdentifierTemplate: c.Parser.IdentifierTemplate,
		Workers:            c.Parser.Workers,
	}
	switch len(c.Parser.Separator) {
	case 0:
	case 1:
		opts.Separator = c.Parser.Separator[0]
	default:
		return descriptor.Options{}, fmt.Errorf("parser separator must be one character, got %q", c.Parser.Separator)
	}
	if err := opts.Validate(); err != nil {
		return descriptor.Options{}, err
	}
	return opts, nil
}

// FactoryOptions returns the factory location settings.
func (c *Config) FactoryOptions() factory.Options {
	return factory.Options{OutputDir: c.Factory.OutputDir, DSN: c.Factory.DSN}
}

// SourceConfig returns the S3 settings for descriptor sources.
func (c *Config) SourceConfig() source.S3Config {
	return source.S3Config{
		Region:          c.S3.Region,
		Endpoint:        c.S3.Endpoint,
		PathStyle:       c.S3.PathStyle,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
	}
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.System == "" {
		return fmt.Errorf("system name not configured")
	}

	validFactory := false
	for _, k := range factory.Kinds() {
		if c.Factory.Kind == string(k) {
			validFactory = true
			break
		}
	}
	if !validFactory {
		return fmt.Errorf("invalid factory: %s (valid: %v)", c.Factory.Kind, factory.Kinds())
	}

	if _, err := c.ParseOptions(); err != nil {
		return fmt.Errorf("invalid parser config: %w", err)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}

	return nil
}
