// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package scanner turns a directory into a snapshot tree.
//
// File hashes are BLAKE2b-256 digests of the content. A folder hash is
// derived from the sorted (type, name, hash) triples of its children, so
// any change below a folder changes the hash of every ancestor.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/internal/utils"
	"github.com/MKhiriev/go-tree-mirror/models"
)

var ErrNotADirectory = errors.New("scan root is not a directory")

type Scanner struct {
	fs      afero.Fs
	rootDir string
	// skip holds base names that are never scanned.
	skip map[string]struct{}

	logger *logger.Logger
}

// NewScanner scans rootDir on fs. Entries whose base name is listed in skip
// are ignored at every depth.
func NewScanner(fs afero.Fs, rootDir string, logger *logger.Logger, skip ...string) *Scanner {
	s := &Scanner{
		fs:      fs,
		rootDir: filepath.Clean(rootDir),
		skip:    make(map[string]struct{}, len(skip)),
		logger:  logger,
	}
	for _, name := range skip {
		s.skip[name] = struct{}{}
	}

	return s
}

// Scan walks the root directory. The returned root folder is named "root".
// Symlinks and other non-regular files are skipped.
func (s *Scanner) Scan(ctx context.Context) (*models.Folder, error) {
	info, err := s.fs.Stat(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", s.rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q", ErrNotADirectory, s.rootDir)
	}

	root, err := s.scanDir(ctx, s.rootDir, tree.RootSegment)
	if err != nil {
		s.logger.Err(err).Str("func", "Scanner.Scan").Str("root_dir", s.rootDir).Msg("scan failed")
		return nil, err
	}

	return root, nil
}

func (s *Scanner) scanDir(ctx context.Context, dir, name string) (*models.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	folder := models.NewFolder(name, "")
	for _, entry := range entries {
		if _, skipped := s.skip[entry.Name()]; skipped {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			child, err := s.scanDir(ctx, path, entry.Name())
			if err != nil {
				return nil, err
			}
			folder.Children = append(folder.Children, child)

		case entry.Mode().IsRegular():
			child, err := s.scanFile(path, entry)
			if err != nil {
				return nil, err
			}
			folder.Children = append(folder.Children, child)
		}
	}

	folder.ContentHash = FolderHash(folder.Children)
	return folder, nil
}

func (s *Scanner) scanFile(path string, info os.FileInfo) (*models.File, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	hash, err := utils.HashReader(f)
	if err != nil {
		return nil, fmt.Errorf("hash %q: %w", path, err)
	}

	return models.NewFile(info.Name(), hash, info.Size(), info.ModTime().UTC()), nil
}

// FolderHash fingerprints a folder from its direct children. The result
// does not depend on child order.
func FolderHash(children []models.Node) string {
	lines := make([]string, 0, len(children))
	for _, child := range children {
		lines = append(lines, string(child.NodeType())+"\x00"+child.NodeName()+"\x00"+child.NodeHash())
	}
	sort.Strings(lines)

	return utils.HashHex([]byte(strings.Join(lines, "\n")))
}
