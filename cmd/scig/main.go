package main

import (
	"fmt"
	"os"

	"scig/internal/config"
	"scig/internal/factory"
	"scig/internal/logging"
	"scig/internal/metrics"
	"scig/internal/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	system      string
	variation   string
	factoryKind string
	metricsFile string

	// Loaded in PersistentPreRunE
	cfg      *config.Config
	recorder *metrics.Recorder

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scig",
	Short: "scig - geometry descriptor toolkit",
	Long: `scig reads pipe-delimited geometry descriptor files, validates every
line and publishes one sci-g volume per descriptor to a geometry factory.

Descriptor line:
  name | mother | x y z | rotation | solid type | dimensions | identifier [| key=value ...]`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer logging.Sync()
		if logger != nil {
			_ = logger.Sync()
		}
		return writeMetrics()
	},
}

// validateCmd parses a descriptor file without publishing
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Parse a descriptor file and report the first bad line",
	Long: `Reads every descriptor in the file (a local path or s3://bucket/key)
and reports the earliest line that fails to parse. Nothing is published.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

// buildCmd parses a descriptor file and publishes its volumes
var buildCmd = &cobra.Command{
	Use:   "build [file]",
	Short: "Build and publish the volumes of a descriptor file",
	Long: `Parses the descriptor file, builds one volume per line and publishes
the volumes to the configured factory (text, sqlite or postgres).
Nothing is published unless every line parses.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "scig.yaml", "Config file")
	rootCmd.PersistentFlags().StringVarP(&system, "system", "s", "", "Geometry system name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&variation, "variation", "", "Geometry variation (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&factoryKind, "factory", "f", "", "Factory: text, sqlite, postgres (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile on exit")

	watchCmd.Flags().BoolVar(&watchBuild, "build", false, "Publish on every change instead of only validating")

	solidsCmd.Flags().BoolVar(&solidsMarkdown, "markdown", false, "Render the catalog as markdown")
	solidsCmd.AddCommand(solidsShowCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(solidsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config, applies flag overrides and installs the loggers.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if system != "" {
		loaded.System = system
	}
	if variation != "" {
		loaded.Variation = variation
	}
	if factoryKind != "" {
		loaded.Factory.Kind = factoryKind
	}
	if metricsFile != "" {
		loaded.Metrics.Textfile = metricsFile
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = loaded

	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logCfg := cfg.Logging.ToLogging()
	if verbose {
		logCfg.DebugMode = true
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		return err
	}
	logging.Boot("scig %s (system %s, variation %s)", cmd.Name(), cfg.System, cfg.Variation)
	logging.BootDebug("config loaded from %s (factory %s)", configPath, cfg.Factory.Kind)

	recorder = metrics.NewRecorder(cfg.System, nil)
	return nil
}

func newRunner() (*pipeline.Runner, error) {
	opts, err := cfg.ParseOptions()
	if err != nil {
		return nil, err
	}
	return &pipeline.Runner{
		Options:        opts,
		Source:         cfg.SourceConfig(),
		Factory:        factory.Kind(cfg.Factory.Kind),
		FactoryOptions: cfg.FactoryOptions(),
		Configuration:  factory.NewConfiguration(cfg.System, cfg.Variation),
		Metrics:        recorder,
	}, nil
}

func writeMetrics() error {
	if cfg == nil || recorder == nil || cfg.Metrics.Textfile == "" {
		return nil
	}
	return recorder.WriteTextfile(cfg.Metrics.Textfile)
}
