// importctl loads spreadsheets into the items store without going through
// the HTTP API, for seeding and migrations.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"resale-dashboard/internal/config"
	"resale-dashboard/internal/observability"
	"resale-dashboard/internal/services"
	"resale-dashboard/internal/store"

	"github.com/spf13/cobra"
)

const commandTimeout = 5 * time.Minute

func openStore() (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := observability.NewLogger(cfg.Logger)

	st, err := store.Open(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, cfg, nil
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import items from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			logger := observability.NewLogger(cfg.Logger)
			importer := services.NewImporter(st, logger)

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			summary, err := importer.Import(ctx, args[0], file)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), summary.Message)
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print store counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			stats, err := st.Stats(ctx)
			if err != nil {
				return err
			}

			for _, key := range []string{"items", "sold_items", "categories", "driver"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", key, stats[key])
			}
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:          "importctl",
		Short:        "Resale dashboard store utilities",
		SilenceUsage: true,
	}
	root.AddCommand(newImportCmd())
	root.AddCommand(newStatsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
