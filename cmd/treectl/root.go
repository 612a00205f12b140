// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-tree-mirror/internal/config"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/service"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/models"
)

type rootOptions struct {
	configPath string
	dsn        string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	info := buildInfo()

	cmd := &cobra.Command{
		Use:          "treectl",
		Short:        "Administer a tree-mirror store and snapshot files",
		Version:      info.Version(),
		SilenceUsage: true,
	}
	cmd.SetVersionTemplate("treectl " + info.String() + "\n")

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "JSON config file")
	cmd.PersistentFlags().StringVarP(&opts.dsn, "dsn", "d", "", "PostgreSQL DSN, overrides the config")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug entries")

	cmd.AddCommand(
		newSeedCmd(opts),
		newApplyCmd(opts),
		newCleanupCmd(opts),
		newExportCmd(opts),
		newMigrateCmd(opts),
		newDiffCmd(opts),
		newPatchCmd(opts),
	)

	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *logger.Logger {
	return logger.NewCLILogger("treectl", cmd.ErrOrStderr(), o.verbose)
}

// storageConfig merges env, the JSON file and the --dsn flag.
func (o *rootOptions) storageConfig() (*config.StructuredConfig, error) {
	cfg, err := config.GetAdminConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dsn != "" {
		cfg.Storage.DB.DSN = o.dsn
	}
	if cfg.Storage.DB.DSN == "" {
		return nil, config.ErrInvalidStorageConfigs
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo().Version()
	}

	return cfg, nil
}

// withServices opens the store, runs fn against the server services and
// closes the store again.
func (o *rootOptions) withServices(cmd *cobra.Command, fn func(ctx context.Context, services *service.Services) error) error {
	log := o.logger(cmd)
	ctx := log.WithContext(cmd.Context())

	cfg, err := o.storageConfig()
	if err != nil {
		return err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer storages.Close()

	services, err := service.NewServices(storages, *cfg, log)
	if err != nil {
		return err
	}

	return fn(ctx, services)
}

func readTree(path string) (*models.Folder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}

	var root models.Folder
	if err = json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode tree %q: %w", path, err)
	}

	return &root, nil
}

func readChangeSet(path string) (models.ChangeSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ChangeSet{}, fmt.Errorf("read change set: %w", err)
	}

	var cs models.ChangeSet
	if err = json.Unmarshal(data, &cs); err != nil {
		return models.ChangeSet{}, fmt.Errorf("decode change set %q: %w", path, err)
	}

	return cs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func buildInfo() models.AppBuildInfo {
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}
