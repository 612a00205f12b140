// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// Field name constants used to restrict validation to a subset of checks.
const (
	// FieldSummary checks that the summary counts match the records.
	FieldSummary = "summary"

	// FieldChanges validates every record of a change set.
	FieldChanges = "changes"

	// FieldPath checks that a record's path names a node below the root.
	FieldPath = "path"

	// FieldNodes checks that the nodes required by the change type are
	// present, well formed and named like the last path segment.
	FieldNodes = "nodes"

	// FieldTree validates a snapshot root and all of its descendants.
	FieldTree = "tree"
)

// TreeValidator implements [Validator] for snapshots and change sets.
type TreeValidator struct {
}

// NewTreeValidator constructs a TreeValidator and returns it as the
// Validator interface.
func NewTreeValidator() Validator {
	return &TreeValidator{}
}

// Validate dispatches on the dynamic type of obj. Supported types:
//   - models.ChangeSet / *models.ChangeSet
//   - models.ChangeRecord / *models.ChangeRecord
//   - *models.Folder (a snapshot root)
//
// Returns ErrUnsupportedType for anything else.
func (v *TreeValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ChangeSet:
		return v.validateChangeSet(ctx, value, fields...)
	case *models.ChangeSet:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateChangeSet(ctx, *value, fields...)

	case models.ChangeRecord:
		return v.validateChangeRecord(ctx, value, fields...)
	case *models.ChangeRecord:
		if value == nil {
			return ErrUnsupportedType
		}
		return v.validateChangeRecord(ctx, *value, fields...)

	case *models.Folder:
		return v.validateTree(ctx, value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateChangeSet checks the summary and every record. Record errors are
// prefixed with the record index and path.
func (v *TreeValidator) validateChangeSet(ctx context.Context, cs models.ChangeSet, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSummary, FieldChanges}
	}

	for _, f := range fields {
		switch f {
		case FieldSummary:
			if got := models.Summarize(cs.Changes); got != cs.Summary {
				return fmt.Errorf("%w: summary %+v, changes %+v", ErrSummaryMismatch, cs.Summary, got)
			}
		case FieldChanges:
			for i, change := range cs.Changes {
				if err := v.validateChangeRecord(ctx, change); err != nil {
					return fmt.Errorf("change #%d (%q): %w", i, change.Path, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *TreeValidator) validateChangeRecord(ctx context.Context, change models.ChangeRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPath, FieldNodes}
	}

	switch change.ChangeType {
	case models.ChangeAdded, models.ChangeRemoved, models.ChangeModified, models.ChangeUnchanged:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChangeType, change.ChangeType)
	}

	segments := tree.SplitPath(change.Path)

	for _, f := range fields {
		switch f {
		case FieldPath:
			if len(segments) == 0 {
				return ErrEmptyPath
			}
		case FieldNodes:
			if len(segments) == 0 {
				return ErrEmptyPath
			}
			if err := validateRecordNodes(change, segments[len(segments)-1]); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateRecordNodes(change models.ChangeRecord, name string) error {
	needOld := change.ChangeType != models.ChangeAdded
	needNew := change.ChangeType != models.ChangeRemoved

	if needOld {
		if isNilNode(change.OldNode) {
			return ErrMissingOldNode
		}
		if err := validateNamedNode(change.OldNode, name); err != nil {
			return fmt.Errorf("oldNode: %w", err)
		}
	}
	if needNew {
		if isNilNode(change.NewNode) {
			return ErrMissingNewNode
		}
		if err := validateNamedNode(change.NewNode, name); err != nil {
			return fmt.Errorf("newNode: %w", err)
		}
	}

	return nil
}

func validateNamedNode(node models.Node, name string) error {
	if node.NodeName() != name {
		return fmt.Errorf("%w: segment %q, node %q", ErrPathNameMismatch, name, node.NodeName())
	}

	return validateSubtree(node)
}

func (v *TreeValidator) validateTree(ctx context.Context, root *models.Folder, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTree}
	}

	for _, f := range fields {
		switch f {
		case FieldTree:
			if root == nil {
				return ErrNilTree
			}
			if err := validateChildren(root); err != nil {
				return err
			}
			for _, child := range root.Children {
				if err := validateSubtree(child); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateSubtree walks node and its descendants with an explicit stack.
func validateSubtree(node models.Node) error {
	stack := []models.Node{node}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := validateNode(current); err != nil {
			return err
		}

		if folder, ok := current.(*models.Folder); ok {
			if err := validateChildren(folder); err != nil {
				return err
			}
			stack = append(stack, folder.Children...)
		}
	}

	return nil
}

func validateNode(node models.Node) error {
	if isNilNode(node) {
		return ErrNilNode
	}
	if file, ok := node.(*models.File); ok && file.Size != nil && *file.Size < 0 {
		return fmt.Errorf("%w: %q", ErrNegativeSize, file.Name)
	}

	name := node.NodeName()
	if name == "" {
		return ErrEmptyNodeName
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidNodeName, name)
	}

	return nil
}

func validateChildren(folder *models.Folder) error {
	seen := make(map[string]struct{}, len(folder.Children))
	for _, child := range folder.Children {
		if isNilNode(child) {
			return ErrNilNode
		}
		name := child.NodeName()
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %q in folder %q", ErrDuplicateSiblingName, name, folder.Name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// isNilNode reports an absent node, including typed nil pointers.
func isNilNode(node models.Node) bool {
	switch n := node.(type) {
	case *models.Folder:
		return n == nil
	case *models.File:
		return n == nil
	default:
		return true
	}
}
