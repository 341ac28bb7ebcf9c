package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-itemstore/pkg/di"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the collection aggregate as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			container, err := di.NewContainer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = container.Close() }()

			agg, err := container.StatsService().Stats(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(agg)
		},
	}
}
