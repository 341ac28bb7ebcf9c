package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-itemstore/internal/config"
)

type rootOptions struct {
	configPath   string
	logLevel     string
	logHuman     bool
	addr         string
	prefix       string
	storeBackend string
	storePath    string
	cacheBackend string
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&rootOptions{})
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "itemstore",
		Short:         "Item collection service",
		Long:          "itemstore exposes a JSON item collection with search, pagination and cached statistics.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.logHuman, "log-human", false, "human readable console logs")
	flags.StringVar(&opts.addr, "addr", "", "HTTP listen address")
	flags.StringVar(&opts.prefix, "prefix", "", "route prefix for the item endpoints")
	flags.StringVar(&opts.storeBackend, "store-backend", "", "collection store backend (file, sqlite, s3)")
	flags.StringVarP(&opts.storePath, "store-path", "s", "", "collection file for the file backend")
	flags.StringVar(&opts.cacheBackend, "cache-backend", "", "aggregate cache backend (memory, sturdyc, redis)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSeedCmd(opts))
	cmd.AddCommand(newStatsCmd(opts))

	return cmd
}

// loadConfig layers explicitly set flags over file and environment config.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-human") {
		cfg.Log.Human = o.logHuman
	}
	if flags.Changed("addr") {
		cfg.HTTP.Addr = o.addr
	}
	if flags.Changed("prefix") {
		cfg.HTTP.Prefix = o.prefix
	}
	if flags.Changed("store-backend") {
		cfg.Store.Backend = o.storeBackend
	}
	if flags.Changed("store-path") {
		cfg.Store.Path = o.storePath
	}
	if flags.Changed("cache-backend") {
		cfg.Cache.Backend = o.cacheBackend
	}

	return cfg, cfg.Validate()
}
