package template

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/studio/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type saveRequest struct {
	Name     string          `json:"name"`
	Public   bool            `json:"public"`
	Document json.RawMessage `json:"document"`
}

// Summary omits the document body for list responses.
type Summary struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	Name      string `json:"name"`
	Public    bool   `json:"public"`
	UpdatedAt string `json:"updatedAt"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "", http.StatusCreated)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, mux.Vars(r)["templateId"], http.StatusOK)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id string, status int) {
	userID := auth.UserIDFromContext(r.Context())

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	t, err := h.service.Save(r.Context(), SaveParams{
		ID:       id,
		OwnerID:  userID,
		Name:     req.Name,
		Public:   req.Public,
		Document: req.Document,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, status, t)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	t, err := h.service.Get(r.Context(), templateID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	templates, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries(templates))
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListPublic(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries(templates))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	templateID := mux.Vars(r)["templateId"]

	if err := h.service.Delete(r.Context(), templateID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func summaries(templates []Template) []Summary {
	out := make([]Summary, len(templates))
	for i, t := range templates {
		out[i] = Summary{
			ID:        t.ID,
			OwnerID:   t.OwnerID,
			Name:      t.Name,
			Public:    t.Public,
			UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrNameRequired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
	case errors.Is(err, ErrInvalidDocument):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
