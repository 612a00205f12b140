// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-tree-mirror/internal/app"
	"github.com/MKhiriev/go-tree-mirror/internal/logger"
	"github.com/MKhiriev/go-tree-mirror/internal/tree"
	"github.com/MKhiriev/go-tree-mirror/internal/utils"
	"github.com/MKhiriev/go-tree-mirror/models"
)

// maxBodyBytes caps snapshot and change set uploads.
const maxBodyBytes = 64 << 20

// setup replaces the last known tree with the uploaded one.
func (h *Handler) setup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.SetupRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, "*Handler.setup", err)
		return
	}

	if err := h.services.TreeService.Setup(r.Context(), req.File); err != nil {
		h.writeError(w, r, "*Handler.setup", err)
		return
	}

	folders, files := tree.Count(req.File)
	h.recordTreeSize(folders, files)
	log.Info().Int("folders", folders).Int("files", files).Msg(app.MsgTreeSetUp)

	total := folders + files
	utils.WriteResponse(w, http.StatusOK, models.Summary{Total: total, Added: total}, app.MsgTreeSetUp)
}

// structure returns the last known tree.
func (h *Handler) structure(w http.ResponseWriter, r *http.Request) {
	root, err := h.services.TreeService.Current(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.structure", err)
		return
	}

	utils.WriteResponse(w, http.StatusOK, root, "")
}

// storeStructure returns the tree rebuilt from the folder and file rows.
func (h *Handler) storeStructure(w http.ResponseWriter, r *http.Request) {
	root, err := h.services.TreeService.StoreStructure(r.Context())
	if err != nil {
		h.writeError(w, r, "*Handler.storeStructure", err)
		return
	}

	utils.WriteResponse(w, http.StatusOK, root, "")
}

// updateDiff diffs the uploaded tree against the last known one and
// applies the result. The applied change set is returned.
func (h *Handler) updateDiff(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateDiffRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, "*Handler.updateDiff", err)
		return
	}

	start := time.Now()
	cs, err := h.services.TreeService.UpdateFromSnapshot(r.Context(), req.File)
	h.recordChangeSet(cs.Summary, time.Since(start), err)
	if err != nil {
		h.writeError(w, r, "*Handler.updateDiff", err)
		return
	}

	h.recordTreeSize(tree.Count(req.File))
	utils.WriteResponse(w, http.StatusOK, cs, app.MsgChangeSetApplied)
}

// changeSet applies a change set computed by the client.
func (h *Handler) changeSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var cs models.ChangeSet
	if err := decodeBody(w, r, &cs); err != nil {
		h.writeError(w, r, "*Handler.changeSet", err)
		return
	}

	start := time.Now()
	patched, err := h.services.TreeService.ApplyChangeSet(r.Context(), cs)
	h.recordChangeSet(cs.Summary, time.Since(start), err)
	if err != nil {
		h.writeError(w, r, "*Handler.changeSet", err)
		return
	}

	h.recordTreeSize(tree.Count(patched))
	log.Debug().Int("total", cs.Summary.Total).Msg(app.MsgChangeSetApplied)

	utils.WriteResponse(w, http.StatusOK, cs.Summary, app.MsgChangeSetApplied)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", fn).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	utils.WriteResponse(w, status, nil, message)
}

func (h *Handler) recordChangeSet(summary models.Summary, d time.Duration, err error) {
	if h.metrics != nil {
		h.metrics.RecordChangeSet(summary, d, err)
	}
}

func (h *Handler) recordTreeSize(folders, files int) {
	if h.metrics != nil {
		h.metrics.SetTreeSize(folders, files)
	}
}
