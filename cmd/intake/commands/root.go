// Package commands implements the intake command line interface.
package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tsawler/intake"
	"github.com/tsawler/intake/llm"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Student application document processing",
	Long: `Intake extracts text from student application documents (PDF scans,
images, DOCX and plain text), and turns whole applications into a
structured record using a local language model.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// cliConfig mirrors the YAML config file and INTAKE_* environment
// variables.
type cliConfig struct {
	Languages string  `mapstructure:"languages"`
	DPI       float64 `mapstructure:"dpi"`
	LLM       struct {
		BaseURL     string  `mapstructure:"base_url"`
		Model       string  `mapstructure:"model"`
		Timeout     int     `mapstructure:"timeout"`
		MaxTokens   int     `mapstructure:"max_tokens"`
		Temperature float64 `mapstructure:"temperature"`
	} `mapstructure:"llm"`
}

// loadConfig builds the processor configuration from defaults, the
// optional config file, and INTAKE_* environment variables
// (INTAKE_LLM_BASE_URL, INTAKE_LANGUAGES, ...).
func loadConfig() (intake.Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv picks up its INTAKE_*
	// override even when no config file mentions it.
	v.SetDefault("languages", "")
	v.SetDefault("dpi", 0)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.timeout", 0)
	v.SetDefault("llm.max_tokens", 0)
	v.SetDefault("llm.temperature", 0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return intake.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Environment values are strings; decode them into the numeric
	// fields too.
	var cli cliConfig
	weak := func(dc *mapstructure.DecoderConfig) { dc.WeaklyTypedInput = true }
	if err := v.Unmarshal(&cli, weak); err != nil {
		return intake.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg := intake.DefaultConfig()
	if cli.Languages != "" {
		cfg.Languages = cli.Languages
	}
	if cli.DPI > 0 {
		cfg.Extract.DPI = cli.DPI
	}
	cfg.LLM = llm.Config{
		BaseURL:     cli.LLM.BaseURL,
		Model:       cli.LLM.Model,
		Timeout:     time.Duration(cli.LLM.Timeout) * time.Second,
		MaxTokens:   cli.LLM.MaxTokens,
		Temperature: cli.LLM.Temperature,
	}

	logger, err := newLogger()
	if err != nil {
		return intake.Config{}, err
	}
	cfg.Logger = logger

	return cfg, nil
}

// newLogger builds a console logger writing to stderr, at debug level
// when --verbose is set.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.Encoding = "console"
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// writeOutput writes data to the given path, or stdout when the path is
// empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
