package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/ubinary/segment"
	"github.com/arloliu/ubinary/source"
)

// configEnv names the environment variable consulted when --config is unset.
const configEnv = "UBINARY_CONFIG"

// defaults holds the values a YAML config file may preset. Flags given on
// the command line always win.
type defaults struct {
	Format      string   `yaml:"format"`
	Flatten     *bool    `yaml:"flatten"`
	Partial     *bool    `yaml:"partial"`
	Concurrency *int     `yaml:"concurrency"`
	Recursive   *bool    `yaml:"recursive"`
	Pattern     string   `yaml:"pattern"`
	Confidence  *float64 `yaml:"confidence"`
}

func loadDefaults(path string) (*defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &d, nil
}

// apply sets every flag of cmd that the user did not pass and the config
// file provides.
func (d *defaults) apply(cmd *cobra.Command) error {
	values := map[string]string{}
	if d.Format != "" {
		values["format"] = d.Format
	}
	if d.Pattern != "" {
		values["pattern"] = d.Pattern
	}
	if d.Flatten != nil {
		values["flatten"] = fmt.Sprint(*d.Flatten)
	}
	if d.Partial != nil {
		values["partial"] = fmt.Sprint(*d.Partial)
	}
	if d.Concurrency != nil {
		values["concurrency"] = fmt.Sprint(*d.Concurrency)
	}
	if d.Recursive != nil {
		values["recursive"] = fmt.Sprint(*d.Recursive)
	}
	if d.Confidence != nil {
		values["confidence"] = fmt.Sprint(*d.Confidence)
	}

	flags := cmd.Flags()
	for name, v := range values {
		if flags.Lookup(name) == nil || flags.Changed(name) {
			continue
		}
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
	}

	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	return cfg.Build()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ubinary",
		Short:        "Inspect and decode tagged instrument containers",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := newLogger(verbose)
			if err != nil {
				return err
			}
			segment.SetLogger(logger)
			source.SetLogger(logger)

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = os.Getenv(configEnv)
			}
			if configPath == "" {
				return nil
			}

			d, err := loadDefaults(configPath)
			if err != nil {
				return err
			}

			return d.apply(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("config", "", "YAML file with flag defaults (or "+configEnv+" env)")

	rootCmd.AddCommand(newTagsCmd(), newDecodeCmd(), newScanCmd(), newFitCmd())

	return rootCmd
}
