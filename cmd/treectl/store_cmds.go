// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <setup.json>",
		Short: "Store a snapshot and replace the folder/file tables with its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readTree(args[0])
			if err != nil {
				return err
			}

			return opts.withServices(cmd, func(ctx context.Context, services *service.Services) error {
				if err := services.TreeService.Setup(ctx, root); err != nil {
					return fmt.Errorf("seed: %w", err)
				}

				folders, files := tree.Count(root)
				logger.FromContext(ctx).Info().Int("folders", folders).Int("files", files).Msg("store seeded")
				return nil
			})
		},
	}
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <changeset.json>",
		Short: "Apply a change set file to the stored snapshot and the folder/file tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := readChangeSet(args[0])
			if err != nil {
				return err
			}

			return opts.withServices(cmd, func(ctx context.Context, services *service.Services) error {
				if _, err := services.TreeService.ApplyChangeSet(ctx, cs); err != nil {
					return fmt.Errorf("apply: %w", err)
				}

				logger.FromContext(ctx).Info().
					Int("added", cs.Summary.Added).
					Int("removed", cs.Summary.Removed).
					Int("modified", cs.Summary.Modified).
					Msg("change set applied")
				return nil
			})
		},
	}
}

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every folder and file row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withServices(cmd, func(ctx context.Context, services *service.Services) error {
				if err := services.TreeService.Cleanup(ctx); err != nil {
					return fmt.Errorf("cleanup: %w", err)
				}

				logger.FromContext(ctx).Info().Msg("store cleaned up")
				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var snapshot bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the tree rebuilt from the store as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withServices(cmd, func(ctx context.Context, services *service.Services) error {
				load := services.TreeService.StoreStructure
				if snapshot {
					load = services.TreeService.Current
				}

				root, err := load(ctx)
				if err != nil {
					return fmt.Errorf("export: %w", err)
				}

				return writeJSON(cmd.OutOrStdout(), root)
			})
		},
	}
	cmd.Flags().BoolVar(&snapshot, "snapshot", false, "Print the stored snapshot instead of rebuilding from rows")

	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := opts.logger(cmd)

			cfg, err := opts.storageConfig()
			if err != nil {
				return err
			}

			// connecting applies the migrations
			storages, err := store.NewStorages(log.WithContext(cmd.Context()), cfg.Storage, log)
			if err != nil {
				return err
			}
			defer storages.Close()

			log.Info().Str("dialect", string(storages.DB.Dialect())).Msg("schema is up to date")
			return nil
		},
	}
}
