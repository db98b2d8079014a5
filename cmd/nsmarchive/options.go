package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/nsmarchive/internal/catalog"
	"github.com/nao1215/nsmarchive/internal/config"
	"github.com/nao1215/nsmarchive/internal/fetch"
	"github.com/nao1215/nsmarchive/internal/log"
)

// errInvalidHeader is returned for --header values without a colon.
var errInvalidHeader = errors.New("header must be in \"Name: value\" form")

// addSiteFlags registers the flags shared by every command that talks to
// the catalog site.
func addSiteFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .nsmarchive in current or home directory)")
	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Catalog origin used for listing and download URLs")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request, including reading the body")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().StringArrayP("header", "H", nil,
		"Extra request header in \"Name: value\" form (repeatable)")
	cmd.Flags().String("proxy", "",
		"Route requests through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("strict", false,
		"Abort when a series page fails instead of skipping it")
}

// boolFlag retrieves a bool flag from the command or the root's persistent flags.
func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// setupLogger creates the stderr logger selected by --verbose and --log-json.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := boolFlag(cmd, "verbose")
	if boolFlag(cmd, "log-json") {
		return log.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig layers defaults, the config file and explicitly set flags,
// then validates the result.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.ApplyFile(file); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags the user set. Flags left at their
// defaults do not clobber config file values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("header") {
		raw, err := flags.GetStringArray("header")
		if err != nil {
			return err
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(raw))
		}
		for _, h := range raw {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return fmt.Errorf("%w: %q", errInvalidHeader, h)
			}
			cfg.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("strict") {
		if cfg.Strict, err = flags.GetBool("strict"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("formats") {
		names, err := flags.GetStringSlice("formats")
		if err != nil {
			return err
		}
		if cfg.Formats, err = config.ParseFormats(names); err != nil {
			return err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return err
		}
	}
	if flags.Changed("index") {
		if cfg.IndexPath, err = flags.GetString("index"); err != nil {
			return err
		}
	}
	if flags.Changed("no-index") {
		if cfg.NoIndex, err = flags.GetBool("no-index"); err != nil {
			return err
		}
	}
	if flags.Changed("report") {
		if cfg.ReportFile, err = flags.GetString("report"); err != nil {
			return err
		}
	}
	if flags.Changed("report-format") {
		if cfg.ReportFormat, err = flags.GetString("report-format"); err != nil {
			return err
		}
	}

	return nil
}

// clientOptions translates cfg into fetch options.
func clientOptions(cfg *config.Config) []fetch.Option {
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithHeaders(cfg.Headers),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, fetch.WithSOCKS5Proxy(cfg.ProxyAddress))
	}
	return opts
}

// newCrawler builds a catalog crawler with its own client.
func newCrawler(cfg *config.Config, logger *slog.Logger, prog *progress) (*catalog.Crawler, error) {
	client, err := fetch.NewClient(clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	opts := []catalog.Option{
		catalog.WithBaseURL(cfg.BaseURL),
		catalog.WithSchema(cfg.Schema),
		catalog.WithStrict(cfg.Strict),
		catalog.WithLogger(logger),
	}
	if prog != nil {
		opts = append(opts, catalog.WithProgress(prog.series))
	}
	return catalog.NewCrawler(client, opts...), nil
}
