// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package api

import (
	"net/http"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
	"github.com/vibeyf-ai/vibeyf/internal/validation"
)

// Catalog lists catalog elements, optionally filtered with ?type=song or
// ?type=collection (French and plural spellings are accepted).
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	req := CatalogRequest{Type: r.URL.Query().Get("type")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(w, r, verr)
		return
	}

	cat := h.engine.Catalog()
	var elements []catalog.MusicalElement
	if req.Type == "" {
		elements = cat.Elements()
	} else {
		t, err := catalog.ParseElementType(req.Type)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
			return
		}
		elements = cat.ByType(t)
	}
	if elements == nil {
		elements = []catalog.MusicalElement{}
	}

	respondList(w, r, elements, len(elements))
}
