package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hjrp/repquery/rbl"
)

// statusListLimit caps how many entries a single status listing returns.
const statusListLimit = 1000

type lookupRequest struct {
	IP string `json:"ip"`
}

type statusCreateRequest struct {
	ClientName string `json:"client_name"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "DNS Query Service"})
}

// handleLookup validates the caller-supplied address and runs the multi-zone
// reputation lookup. Invalid addresses fail fast with 400 before any zone
// query is issued.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		return
	}

	req := &lookupRequest{}
	if err := decodeBody(r, req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("error decoding body: %s", err))
		return
	}

	resp, err := s.Checker.Lookup(r.Context(), req.IP)
	if err != nil {
		if errors.Is(err, rbl.ErrInvalidAddress) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatusCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		return
	}

	req := &statusCreateRequest{}
	if err := decodeBody(r, req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("error decoding body: %s", err))
		return
	}
	if req.ClientName == "" {
		writeError(w, http.StatusBadRequest, "client_name must not be empty")
		return
	}

	entry, err := s.Status.Append(r.Context(), req.ClientName)
	if err != nil {
		log.Errorf("appending status check: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error storing value: %s", err))
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleStatusList(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		return
	}

	entries, err := s.Status.ListRecent(r.Context(), statusListLimit)
	if err != nil {
		log.Errorf("listing status checks: %v", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("error listing values: %s", err))
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
