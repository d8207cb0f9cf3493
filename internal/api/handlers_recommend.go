// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vibeyf-ai/vibeyf/internal/logging"
	"github.com/vibeyf-ai/vibeyf/internal/recommend"
	"github.com/vibeyf-ai/vibeyf/internal/results"
	"github.com/vibeyf-ai/vibeyf/internal/validation"
)

const defaultHistoryLimit = 20

// Recommend runs the posted answers through the pipeline and returns the
// result document. A missing user_id is replaced by a random UUID.
//
//	400 BAD_REQUEST        malformed JSON
//	400 VALIDATION_ERROR   invalid answers or user_id
//	400 INVALID_QUERY      answers that produce no usable query text
//	413 PAYLOAD_TOO_LARGE  body above the configured limit
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, r, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge,
				"Request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Failed to read request body", nil)
		return
	}

	var req RecommendationRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body: "+err.Error(), nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(w, r, verr)
		return
	}
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	doc, err := h.recommender.Run(r.Context(), req.Answers, req.UserID)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, doc)
}

func (h *Handler) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	var qerr *recommend.InvalidQueryError

	switch {
	case errors.As(err, &verr):
		writeValidationError(w, r, verr)
	case errors.Is(err, results.ErrInvalidUserID):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.As(err, &qerr):
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidQuery, qerr.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request cancelled", nil)
	default:
		logging.Annotate(r.Context(), h.logger).Error().Err(err).Msg("recommendation failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Recommendation failed", nil)
	}
}

// Result returns the stored document of one user.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := results.CheckUserID(userID); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	doc, err := h.results.LoadResult(r.Context(), userID)
	switch {
	case errors.Is(err, results.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No result for user "+userID, nil)
	case err != nil:
		logging.Annotate(r.Context(), h.logger).Error().Err(err).Str("user_id", userID).Msg("load result failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to load result", nil)
	default:
		respondJSON(w, r, http.StatusOK, doc)
	}
}

// Results lists the most recent documents, newest first, with ?limit=1..100.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Result history is disabled", nil)
		return
	}

	req := HistoryRequest{Limit: defaultHistoryLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer", nil)
			return
		}
		req.Limit = limit
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		writeValidationError(w, r, verr)
		return
	}

	docs, err := h.history.Recent(r.Context(), req.Limit)
	if err != nil {
		logging.Annotate(r.Context(), h.logger).Error().Err(err).Msg("list results failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to list results", nil)
		return
	}
	if docs == nil {
		docs = []*results.Document{}
	}
	respondList(w, r, docs, len(docs))
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	var details interface{}
	if apiErr.Details != nil {
		details = apiErr.Details
	}
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, details)
}
