package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog-import/internal/admin"
	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/JonMunkholm/catalog-import/internal/store/postgres"
)

func newResetCmd() *cobra.Command {
	var (
		yes          bool
		productsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete imported products and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return withCode(exitUsage, errors.New("reset deletes catalog data; pass --yes to confirm"))
			}

			cfg, err := config.Load()
			if err != nil {
				return withCode(exitUsage, err)
			}
			logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			r := &admin.Resetter{DB: pool, Logger: logger}
			reset := r.ResetAll
			if productsOnly {
				reset = r.ResetProducts
			}

			deleted, err := reset(ctx)
			if err != nil {
				return err
			}
			for table, n := range deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d deleted\n", table, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the deletion")
	cmd.Flags().BoolVar(&productsOnly, "products-only", false, "Keep categories")
	return cmd
}
