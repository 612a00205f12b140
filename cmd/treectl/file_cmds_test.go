// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/models"
)

func writeFile(t *testing.T, dir, name string, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func sampleTrees() (*models.Folder, *models.Folder) {
	mtime := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	prev := models.NewFolder("root", "r1",
		models.NewFolder("docs", "d1",
			models.NewFile("a.txt", "a1", 1, mtime),
		),
	)
	next := models.NewFolder("root", "r2",
		models.NewFolder("docs", "d2",
			models.NewFile("a.txt", "a2", 2, mtime),
			models.NewFile("b.txt", "b1", 1, mtime),
		),
	)
	return prev, next
}

func TestDiffCmd(t *testing.T) {
	dir := t.TempDir()
	prev, next := sampleTrees()

	out, err := run(t, "diff", writeFile(t, dir, "old.json", prev), writeFile(t, dir, "new.json", next))
	require.NoError(t, err)

	var cs models.ChangeSet
	require.NoError(t, json.Unmarshal([]byte(out), &cs))
	assert.Equal(t, 1, cs.Summary.Added)
	assert.Equal(t, 0, cs.Summary.Removed)
	assert.Equal(t, cs.Summary.Total, len(cs.Changes))
}

func TestDiffCmd_SummaryOnly(t *testing.T) {
	dir := t.TempDir()
	prev, next := sampleTrees()

	out, err := run(t, "diff", "--summary", writeFile(t, dir, "old.json", prev), writeFile(t, dir, "new.json", next))
	require.NoError(t, err)

	var summary models.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 1, summary.Added)
}

func TestPatchCmd_RoundTripsDiff(t *testing.T) {
	dir := t.TempDir()
	prev, next := sampleTrees()
	cs := tree.Diff(prev, next, time.Now().UTC())

	out, err := run(t, "patch", writeFile(t, dir, "snapshot.json", prev), writeFile(t, dir, "cs.json", cs))
	require.NoError(t, err)

	var patched models.Folder
	require.NoError(t, json.Unmarshal([]byte(out), &patched))

	_, docs := patched.Child("docs")
	require.NotNil(t, docs)
	idx, b := docs.(*models.Folder).Child("b.txt")
	assert.NotEqual(t, -1, idx)
	assert.Equal(t, "b1", b.NodeHash())
	_, a := docs.(*models.Folder).Child("a.txt")
	assert.Equal(t, "a2", a.NodeHash())
}

func TestPatchCmd_InvalidChangeSet(t *testing.T) {
	dir := t.TempDir()
	prev, _ := sampleTrees()

	bad := models.ChangeSet{
		Summary: models.Summary{Total: 1, Added: 1},
		Changes: []models.ChangeRecord{{ChangeType: models.ChangeAdded, Path: "root/x"}},
	}

	_, err := run(t, "patch", writeFile(t, dir, "snapshot.json", prev), writeFile(t, dir, "cs.json", bad))
	assert.ErrorContains(t, err, "invalid change set")
}

func TestDiffCmd_MissingFile(t *testing.T) {
	_, err := run(t, "diff", filepath.Join(t.TempDir(), "nope.json"), "other.json")
	assert.Error(t, err)
}

func TestDiffCmd_ArgCount(t *testing.T) {
	_, err := run(t, "diff", "only-one.json")
	assert.Error(t, err)
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range newRootCmd().Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"seed", "apply", "cleanup", "export", "migrate", "diff", "patch"} {
		assert.True(t, names[want], want)
	}
}

func TestStoreCmds_RequireDSN(t *testing.T) {
	t.Setenv("STORAGE_DB_DATABASE_URI", "")

	_, err := run(t, "cleanup")
	assert.Error(t, err)
}
