// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/internal/validators"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Print the change set between two snapshot files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prev, err := readTree(args[0])
			if err != nil {
				return err
			}
			next, err := readTree(args[1])
			if err != nil {
				return err
			}

			cs := tree.Diff(prev, next, time.Now().UTC())
			opts.logger(cmd).Debug().Int("total", cs.Summary.Total).Msg("diff computed")

			if summaryOnly {
				return writeJSON(cmd.OutOrStdout(), cs.Summary)
			}
			return writeJSON(cmd.OutOrStdout(), cs)
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print only the per-type counts")

	return cmd
}

func newPatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patch <snapshot.json> <changeset.json>",
		Short: "Apply a change set file to a snapshot file and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := readTree(args[0])
			if err != nil {
				return err
			}
			cs, err := readChangeSet(args[1])
			if err != nil {
				return err
			}

			if err = validators.NewTreeValidator().Validate(cmd.Context(), cs); err != nil {
				return fmt.Errorf("invalid change set: %w", err)
			}

			patched := tree.ApplyChangeSet(root, cs.Changes)
			opts.logger(cmd).Debug().Int("changes", len(cs.Changes)).Msg("change set applied")

			return writeJSON(cmd.OutOrStdout(), patched)
		},
	}
}
