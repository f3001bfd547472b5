// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convertkit CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/convertkit/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the convertkit CLI.
var rootCmd = &cobra.Command{
	Use:   "convertkit",
	Short: "Convert files between data, markup, image and document formats",
	Long: `convertkit converts files between formats by extension: structured data
(JSON, YAML, XML, CSV, TOML, minified JSON), numeric arrays (.npy), Markdown
and HTML, PNG/JPEG/WebP images, and DOCX/PDF/plain text.

Convert a single file or every matching file under a directory tree, list
the supported conversions, review past runs, or watch a directory and
convert files as they change.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convertkit.yaml or ~/.config/convertkit/convertkit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convertkit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convertkit"))
		}
	}

	setDefaults(viper.GetViper())
	viper.SetEnvPrefix("CONVERTKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.collision", d.Batch.Collision)
	v.SetDefault("media.jpeg_quality", d.Media.JPEGQuality)
	v.SetDefault("journal.path", d.Journal.Path)
	v.SetDefault("markitdown.enabled", d.Markitdown.Enabled)
	v.SetDefault("markitdown.image", d.Markitdown.Image)
}

// loadConfig decodes the merged defaults, config file and environment.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// exitError carries a process exit status for failures that have already
// been reported.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
