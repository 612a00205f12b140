// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/store"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// fileWriteMode controls what happens when a file row already exists.
type fileWriteMode int

const (
	// overwriteFile always replaces the row with the incoming fields.
	overwriteFile fileWriteMode = iota
	// overwriteChangedFile skips rows whose hash and size already match.
	overwriteChangedFile
)

// workItem is one pending node of an added subtree.
type workItem struct {
	parentID *int64
	path     string
	node     models.Node
}

type reconcileService struct {
	folders store.FolderRepository
	files   store.FileRepository

	now    func() time.Time
	logger *logger.Logger
}

func NewReconcileService(folders store.FolderRepository, files store.FileRepository, logger *logger.Logger) ReconcileService {
	return &reconcileService{
		folders: folders,
		files:   files,
		now:     time.Now,
		logger:  logger,
	}
}

// Reconcile applies each record to the store. The returned error names the
// path of the failing record.
func (s *reconcileService) Reconcile(ctx context.Context, changes []models.ChangeRecord) error {
	log := logger.FromContext(ctx)

	for _, change := range changes {
		if err := s.apply(ctx, change); err != nil {
			log.Err(err).
				Str("func", "reconcileService.Reconcile").
				Str("path", change.Path).
				Str("change_type", string(change.ChangeType)).
				Msg("failed to apply change to store")
			return fmt.Errorf("%w: path %q: %w", ErrReconcileFailed, change.Path, err)
		}
	}

	return nil
}

func (s *reconcileService) apply(ctx context.Context, change models.ChangeRecord) error {
	segments := tree.SplitPath(change.Path)
	if len(segments) == 0 {
		return nil
	}
	parent, name := segments[:len(segments)-1], segments[len(segments)-1]

	switch change.ChangeType {
	case models.ChangeAdded:
		if change.NewNode == nil {
			return fmt.Errorf("%w: added record without newNode", ErrMalformedChange)
		}
		parentID, err := s.ResolveOrCreateFolderPath(ctx, parent)
		if err != nil {
			return err
		}
		return s.expand(ctx, []workItem{{parentID: parentID, path: change.Path, node: change.NewNode}}, overwriteFile)

	case models.ChangeRemoved:
		if change.OldNode == nil {
			return fmt.Errorf("%w: removed record without oldNode", ErrMalformedChange)
		}
		return s.remove(ctx, parent, name, change.OldNode)

	case models.ChangeModified:
		file, ok := change.NewNode.(*models.File)
		if !ok {
			// folder rows carry no hash
			return nil
		}
		return s.modify(ctx, parent, file)
	}

	return nil
}

// ResolveOrCreateFolderPath implements [ReconcileService].
func (s *reconcileService) ResolveOrCreateFolderPath(ctx context.Context, segments []string) (*int64, error) {
	var parentID *int64
	for _, name := range segments {
		folder, err := s.findOrCreateFolder(ctx, name, parentID)
		if err != nil {
			return nil, err
		}
		id := folder.ID
		parentID = &id
	}

	return parentID, nil
}

// Import implements [ReconcileService]. Existing rows are reused; files are
// rewritten only when their hash or size changed.
func (s *reconcileService) Import(ctx context.Context, root *models.Folder) error {
	if root == nil {
		return nil
	}

	items := make([]workItem, 0, len(root.Children))
	for _, child := range root.Children {
		items = append(items, workItem{path: tree.JoinPath(child.NodeName()), node: child})
	}

	if err := s.expand(ctx, items, overwriteChangedFile); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "reconcileService.Import").Msg("failed to import tree")
		return fmt.Errorf("%w: %w", ErrReconcileFailed, err)
	}

	return nil
}

// expand drains a FIFO worklist, so every folder row exists before its
// children are written.
func (s *reconcileService) expand(ctx context.Context, queue []workItem, mode fileWriteMode) error {
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		switch node := item.node.(type) {
		case *models.Folder:
			folder, err := s.findOrCreateFolder(ctx, node.Name, item.parentID)
			if err != nil {
				return fmt.Errorf("folder %q: %w", item.path, err)
			}
			id := folder.ID
			for _, child := range node.Children {
				queue = append(queue, workItem{parentID: &id, path: item.path + "/" + child.NodeName(), node: child})
			}

		case *models.File:
			if err := s.writeFile(ctx, item.parentID, node, mode); err != nil {
				return fmt.Errorf("file %q: %w", item.path, err)
			}
		}
	}

	return nil
}

func (s *reconcileService) findOrCreateFolder(ctx context.Context, name string, parentID *int64) (models.FolderRecord, error) {
	folder, err := s.folders.FindFolder(ctx, models.FolderFilter{Name: name, ParentID: parentID})
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, store.ErrFolderNotFound) {
		return models.FolderRecord{}, err
	}

	return s.folders.CreateFolder(ctx, models.FolderRecord{Name: name, ParentID: parentID})
}

func (s *reconcileService) writeFile(ctx context.Context, folderID *int64, file *models.File, mode fileWriteMode) error {
	record := s.fileRecord(folderID, file)

	existing, err := s.files.FindFile(ctx, models.FileFilter{Name: file.Name, FolderID: folderID})
	if errors.Is(err, store.ErrFileNotFound) {
		_, err = s.files.CreateFile(ctx, record)
		return err
	}
	if err != nil {
		return err
	}

	if mode == overwriteChangedFile && existing.ContentHash == record.ContentHash && existing.Size == record.Size {
		return nil
	}

	record.ID = existing.ID
	_, err = s.files.UpdateFile(ctx, record)
	return err
}

func (s *reconcileService) fileRecord(folderID *int64, file *models.File) models.FileRecord {
	record := models.FileRecord{
		Name:         file.Name,
		FolderID:     folderID,
		ContentHash:  file.ContentHash,
		LastModified: s.now(),
	}
	if file.Size != nil {
		record.Size = *file.Size
	}
	if file.LastModified != nil {
		record.LastModified = *file.LastModified
	}

	return record
}

// lookupFolderPath resolves segments without creating anything. found is
// false when any ancestor is missing.
func (s *reconcileService) lookupFolderPath(ctx context.Context, segments []string) (parentID *int64, found bool, err error) {
	for _, name := range segments {
		folder, err := s.folders.FindFolder(ctx, models.FolderFilter{Name: name, ParentID: parentID})
		if errors.Is(err, store.ErrFolderNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		id := folder.ID
		parentID = &id
	}

	return parentID, true, nil
}

func (s *reconcileService) remove(ctx context.Context, parent []string, name string, old models.Node) error {
	parentID, found, err := s.lookupFolderPath(ctx, parent)
	if err != nil || !found {
		return err
	}

	switch old.(type) {
	case *models.Folder:
		folder, err := s.folders.FindFolder(ctx, models.FolderFilter{Name: name, ParentID: parentID})
		if errors.Is(err, store.ErrFolderNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.deleteFolderTree(ctx, folder.ID)

	case *models.File:
		file, err := s.files.FindFile(ctx, models.FileFilter{Name: name, FolderID: parentID})
		if errors.Is(err, store.ErrFileNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.files.DeleteFile(ctx, file.ID)
	}

	return nil
}

// deleteFolderTree removes the files of every descendant folder, then the
// folders deepest first, and the folder itself last.
func (s *reconcileService) deleteFolderTree(ctx context.Context, rootID int64) error {
	ids := []int64{rootID}
	for i := 0; i < len(ids); i++ {
		parentID := ids[i]
		children, err := s.folders.FindFolders(ctx, models.FolderFilter{ParentID: &parentID})
		if err != nil {
			return err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
		}
	}

	for _, id := range ids {
		if err := s.files.DeleteFiles(ctx, models.FileFilter{FolderID: &id}); err != nil {
			return err
		}
	}

	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.folders.DeleteFolder(ctx, ids[i]); err != nil {
			return err
		}
	}

	return nil
}

// modify repairs missing ancestors, then updates the file if it exists.
func (s *reconcileService) modify(ctx context.Context, parent []string, next *models.File) error {
	folderID, err := s.ResolveOrCreateFolderPath(ctx, parent)
	if err != nil {
		return err
	}

	existing, err := s.files.FindFile(ctx, models.FileFilter{Name: next.Name, FolderID: folderID})
	if errors.Is(err, store.ErrFileNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	existing.ContentHash = next.ContentHash
	if next.Size != nil {
		existing.Size = *next.Size
	}
	if next.LastModified != nil {
		existing.LastModified = *next.LastModified
	}

	_, err = s.files.UpdateFile(ctx, existing)
	return err
}
