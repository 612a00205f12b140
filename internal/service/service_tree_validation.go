// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/validators"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// treeValidationService rejects malformed input before it reaches the
// wrapped TreeService.
type treeValidationService struct {
	inner     TreeService
	validator validators.Validator
	logger    *logger.Logger
}

type treeValidationWrapper struct {
	validator validators.Validator
	logger    *logger.Logger
}

func NewTreeValidationWrapper(validator validators.Validator, logger *logger.Logger) TreeServiceWrapper {
	return &treeValidationWrapper{validator: validator, logger: logger}
}

func (w *treeValidationWrapper) Wrap(inner TreeService) TreeService {
	return &treeValidationService{inner: inner, validator: w.validator, logger: w.logger}
}

func (v *treeValidationService) Setup(ctx context.Context, root *models.Folder) error {
	if err := v.validate(ctx, "Setup", root, validators.FieldTree); err != nil {
		return err
	}
	return v.inner.Setup(ctx, root)
}

func (v *treeValidationService) Current(ctx context.Context) (*models.Folder, error) {
	return v.inner.Current(ctx)
}

func (v *treeValidationService) ApplyChangeSet(ctx context.Context, cs models.ChangeSet) (*models.Folder, error) {
	if err := v.validate(ctx, "ApplyChangeSet", cs); err != nil {
		return nil, err
	}
	return v.inner.ApplyChangeSet(ctx, cs)
}

func (v *treeValidationService) UpdateFromSnapshot(ctx context.Context, next *models.Folder) (models.ChangeSet, error) {
	if err := v.validate(ctx, "UpdateFromSnapshot", next, validators.FieldTree); err != nil {
		return models.ChangeSet{}, err
	}
	return v.inner.UpdateFromSnapshot(ctx, next)
}

func (v *treeValidationService) StoreStructure(ctx context.Context) (*models.Folder, error) {
	return v.inner.StoreStructure(ctx)
}

func (v *treeValidationService) Cleanup(ctx context.Context) error {
	return v.inner.Cleanup(ctx)
}

func (v *treeValidationService) validate(ctx context.Context, method string, input any, fields ...string) error {
	if err := v.validator.Validate(ctx, input, fields...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "treeValidationService."+method).
			Msg("input rejected")
		return fmt.Errorf("%w: %w", ErrMalformedChange, err)
	}

	return nil
}
