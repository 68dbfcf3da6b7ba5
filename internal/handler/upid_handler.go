package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Siddarth2230/upid/internal/models"
	"github.com/Siddarth2230/upid/internal/service"
	"github.com/Siddarth2230/upid/pkg/log"
	"github.com/Siddarth2230/upid/pkg/upid"
)

type UPIDHandler struct {
	service  *service.UPIDService
	validate *validator.Validate
}

func NewUPIDHandler(svc *service.UPIDService) *UPIDHandler {
	return &UPIDHandler{service: svc, validate: validator.New()}
}

// RegisterRoutes mounts the API on r.
func (h *UPIDHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/upids", h.IssueUPIDs).Methods(http.MethodPost)
	r.HandleFunc("/upids", h.ListUPIDs).Methods(http.MethodGet)
	r.HandleFunc("/upids/{id}", h.GetUPID).Methods(http.MethodGet)
	r.HandleFunc("/upids/{id}", h.RevokeUPID).Methods(http.MethodDelete)
	r.HandleFunc("/decode/{id}", h.DecodeUPID).Methods(http.MethodGet)
}

// POST /upids
func (h *UPIDHandler) IssueUPIDs(w http.ResponseWriter, r *http.Request) {
	var req models.IssueRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload", "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request")
		return
	}

	recs, err := h.service.Issue(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.IssueResponse{IDs: recs})
}

// GET /upids?prefix=&limit=
func (h *UPIDHandler) ListUPIDs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer", "invalid_request")
			return
		}
		limit = n
	}

	recs, err := h.service.List(r.Context(), q.Get("prefix"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse{Items: recs, Count: len(recs)})
}

// GET /upids/{id}
func (h *UPIDHandler) GetUPID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Lookup(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DELETE /upids/{id}
func (h *UPIDHandler) RevokeUPID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Revoke(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /decode/{id}
func (h *UPIDHandler) DecodeUPID(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Inspect(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *UPIDHandler) pathID(w http.ResponseWriter, r *http.Request) (upid.UPID, bool) {
	id, err := h.service.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return upid.Nil, false
	}
	return id, true
}

// writeServiceError maps service and codec errors to HTTP responses.
func (h *UPIDHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if kind := upid.Kind(err); kind != "" {
		writeError(w, http.StatusBadRequest, err.Error(), kind)
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, service.ErrGenExhausted):
		writeError(w, http.StatusServiceUnavailable, err.Error(), "")
	default:
		l := log.Ctx(r.Context())
		l.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l := log.L()
		l.Error().Err(err).Msg("writeJSON encode error")
	}
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}
