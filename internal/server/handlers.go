package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonathan/humanizer/internal/db"
	"github.com/jonathan/humanizer/internal/types"
)

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "ok",
		"model":  s.service.Model(),
	})
}

// handleHumanize rewrites the posted text
func (s *Server) handleHumanize(w http.ResponseWriter, r *http.Request) {
	var req types.HumanizeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	res, err := s.service.Humanize(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleGenerate writes new content about the posted topic
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	res, err := s.service.Generate(r.Context(), req)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleScore rates the posted text without calling the model
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.service.Score(req.Text))
}

// handleListResults returns the most recent results, newest first
func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, r, &types.ValidationError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	results, err := s.store.ListResults(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if results == nil {
		results = []db.ResultSummary{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

// handleGetResult returns one stored result
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.lookupResult(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleDownloadResult returns the generated text as a plain-text attachment
func (s *Server) handleDownloadResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.lookupResult(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.OutputText)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.OutputText))
}

func (s *Server) lookupResult(r *http.Request) (*db.Result, error) {
	rawID := chi.URLParam(r, "id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, &types.ValidationError{Field: "id", Message: "must be a UUID"}
	}

	result, err := s.store.GetResult(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &ErrNotFound{Resource: "result", ID: rawID}
	}
	return result, nil
}

// decodeJSON reads a size-limited JSON body into dst
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return &types.ValidationError{Field: "Content-Type", Message: "must be application/json"}
		}
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrRequestTooLarge{Limit: tooLarge.Limit}
		}
		return &types.ValidationError{Message: "invalid JSON body: " + strings.TrimPrefix(err.Error(), "json: ")}
	}
	return nil
}
