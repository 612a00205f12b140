// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// treeService keeps the cached snapshot and the folder/file store in step.
// Writes are serialized by mu; every write runs in one transaction, so a
// failed apply leaves both the snapshot and the store as they were.
type treeService struct {
	transactor store.Transactor
	snapshots  store.SnapshotRepository
	folders    store.FolderRepository
	files      store.FileRepository
	reconciler ReconcileService

	mu     sync.Mutex
	now    func() time.Time
	logger *logger.Logger
}

func NewTreeService(transactor store.Transactor, snapshots store.SnapshotRepository, folders store.FolderRepository,
	files store.FileRepository, reconciler ReconcileService, logger *logger.Logger) TreeService {
	return &treeService{
		transactor: transactor,
		snapshots:  snapshots,
		folders:    folders,
		files:      files,
		reconciler: reconciler,
		now:        time.Now,
		logger:     logger,
	}
}

// Setup replaces the cached snapshot with root and the folder/file rows
// with the nodes of root.
func (s *treeService) Setup(ctx context.Context, root *models.Folder) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.clearStore(ctx); err != nil {
			return err
		}
		if err := s.reconciler.Import(ctx, root); err != nil {
			return err
		}
		return s.saveTree(ctx, models.SetupTreeSnapshot, root)
	})
	if err != nil {
		log.Err(err).Str("func", "treeService.Setup").Msg("failed to set up tree")
		return err
	}

	folders, files := tree.Count(root)
	log.Info().Int("folders", folders).Int("files", files).Msg("tree set up")

	return nil
}

// Current returns the cached snapshot or ErrNoSnapshot.
func (s *treeService) Current(ctx context.Context) (*models.Folder, error) {
	return s.loadTree(ctx)
}

// ApplyChangeSet patches the cached snapshot, reconciles the store and
// persists both the new snapshot and the change set itself. Change sets
// never describe the root, so a set that alters the tree clears the root
// hash instead of leaving a stale one.
func (s *treeService) ApplyChangeSet(ctx context.Context, cs models.ChangeSet) (*models.Folder, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	var patched *models.Folder
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.loadTreeOrEmpty(ctx)
		if err != nil {
			return err
		}

		if patched, err = s.apply(ctx, current, cs); err != nil {
			return err
		}
		if summary := models.Summarize(cs.Changes); summary.Total > summary.Unchanged {
			patched.ContentHash = ""
		}
		return s.persist(ctx, patched, cs)
	})
	if err != nil {
		log.Err(err).Str("func", "treeService.ApplyChangeSet").Msg("failed to apply change set")
		return nil, err
	}

	log.Info().
		Int("added", cs.Summary.Added).
		Int("removed", cs.Summary.Removed).
		Int("modified", cs.Summary.Modified).
		Msg("change set applied")

	return patched, nil
}

// UpdateFromSnapshot diffs next against the cached snapshot and applies
// the result. The stored root keeps the hash reported by next.
func (s *treeService) UpdateFromSnapshot(ctx context.Context, next *models.Folder) (models.ChangeSet, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	var cs models.ChangeSet
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		prev, err := s.loadTreeOrEmpty(ctx)
		if err != nil {
			return err
		}

		cs = tree.Diff(prev, next, s.now())
		patched, err := s.apply(ctx, prev, cs)
		if err != nil {
			return err
		}

		patched.ContentHash = next.ContentHash
		return s.persist(ctx, patched, cs)
	})
	if err != nil {
		log.Err(err).Str("func", "treeService.UpdateFromSnapshot").Msg("failed to update from snapshot")
		return models.ChangeSet{}, err
	}

	return cs, nil
}

// apply patches current in place and reconciles the store. It runs
// inside the caller's transaction.
func (s *treeService) apply(ctx context.Context, current *models.Folder, cs models.ChangeSet) (*models.Folder, error) {
	patched := tree.ApplyChangeSet(current, cs.Changes)

	if err := s.reconciler.Reconcile(ctx, cs.Changes); err != nil {
		return nil, err
	}

	return patched, nil
}

// persist stores the patched tree and the change set that produced it.
func (s *treeService) persist(ctx context.Context, patched *models.Folder, cs models.ChangeSet) error {
	if err := s.saveTree(ctx, models.SetupTreeSnapshot, patched); err != nil {
		return err
	}

	return s.saveJSON(ctx, models.DiffTreeSnapshot, cs)
}

// StoreStructure rebuilds the tree from the folder and file rows.
func (s *treeService) StoreStructure(ctx context.Context) (*models.Folder, error) {
	log := logger.FromContext(ctx)

	folders, err := s.folders.AllFolders(ctx)
	if err != nil {
		log.Err(err).Str("func", "treeService.StoreStructure").Msg("failed to list folders")
		return nil, err
	}

	files, err := s.files.AllFiles(ctx)
	if err != nil {
		log.Err(err).Str("func", "treeService.StoreStructure").Msg("failed to list files")
		return nil, err
	}

	return tree.Build(folders, files), nil
}

// Cleanup deletes every file and folder row. Snapshots are kept.
func (s *treeService) Cleanup(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transactor.WithinTransaction(ctx, s.clearStore); err != nil {
		log.Err(err).Str("func", "treeService.Cleanup").Msg("failed to clean up store")
		return err
	}

	log.Info().Msg("store cleaned up")
	return nil
}

// clearStore deletes every file and folder row, files first.
func (s *treeService) clearStore(ctx context.Context) error {
	if err := s.files.DeleteAllFiles(ctx); err != nil {
		return err
	}
	return s.folders.DeleteAllFolders(ctx)
}

func (s *treeService) loadTree(ctx context.Context) (*models.Folder, error) {
	snapshot, err := s.snapshots.GetSnapshot(ctx, models.SetupTreeSnapshot)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var root models.Folder
	if err = json.Unmarshal(snapshot.Content, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptedSnapshot, err)
	}

	return &root, nil
}

func (s *treeService) loadTreeOrEmpty(ctx context.Context) (*models.Folder, error) {
	root, err := s.loadTree(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return models.NewFolder(tree.RootSegment, ""), nil
	}

	return root, err
}

func (s *treeService) saveTree(ctx context.Context, name string, root *models.Folder) error {
	return s.saveJSON(ctx, name, root)
}

func (s *treeService) saveJSON(ctx context.Context, name string, v any) error {
	content, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error marshaling snapshot %q: %w", name, err)
	}

	return s.snapshots.SaveSnapshot(ctx, models.Snapshot{Name: name, Content: content})
}
