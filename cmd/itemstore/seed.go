package main

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-itemstore/cache"
	"github.com/goliatone/go-itemstore/item"
	"github.com/goliatone/go-itemstore/pkg/di"
)

//go:embed seed.json
var seedData []byte

func seedItems() ([]item.Item, error) {
	var items []item.Item
	if err := json.Unmarshal(seedData, &items); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	return items, nil
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the sample collection to the configured store",
		Long:  "Write the sample collection to the configured store. A non-empty store is left untouched unless --force is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			container, err := di.NewContainer(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = container.Close() }()

			existing, err := container.Store().Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load store: %w", err)
			}
			if len(existing) > 0 && !force {
				return fmt.Errorf("store already holds %d items, use --force to overwrite", len(existing))
			}

			items, err := seedItems()
			if err != nil {
				return err
			}
			if err := container.Store().Persist(ctx, items); err != nil {
				return fmt.Errorf("failed to persist seed data: %w", err)
			}
			if err := container.Cache().Invalidate(ctx, cache.StatsKey); err != nil {
				return fmt.Errorf("failed to invalidate stats: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items\n", len(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite a non-empty store")
	return cmd
}
