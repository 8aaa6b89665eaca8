package records

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

// Create saves a participant submission. The record is tagged with the
// session's bound workshop password (the strict gate already re-validated it;
// a race with expiry between check and insert is accepted — feedback already
// in flight should not be discarded).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID                  string `json:"id"`
		Timestamp           string `json:"timestamp"`
		FirstName           string `json:"firstname"`
		LastName            string `json:"lastname"`
		Prompt              string `json:"prompt"`
		Notes               string `json:"notes"`
		FacilitatorFeedback string `json:"facilitatorfeedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing prompt")
		return
	}

	session, _ := utils.GetSessionFromContext(r.Context())

	rec := Record{
		ID:                  input.ID,
		Timestamp:           time.Now(),
		FirstName:           cleanName(input.FirstName),
		LastName:            cleanName(input.LastName),
		Prompt:              input.Prompt,
		Notes:               input.Notes,
		FacilitatorFeedback: input.FacilitatorFeedback,
		Password:            session.BoundPassword,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if input.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, input.Timestamp); err == nil {
			rec.Timestamp = t
		}
	}

	if err := h.Store.Create(rec); err != nil {
		log.Printf("[records] insert failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to save record")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// cleanName trims and NFC-normalizes a participant name; names get typed on
// phones with every composition quirk imaginable.
func cleanName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.List()
	if err != nil {
		log.Printf("[records] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	utils.RespondJSON(w, http.StatusOK, rows)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields EditableFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields.FirstName = cleanName(fields.FirstName)
	fields.LastName = cleanName(fields.LastName)

	if err := h.Store.Update(id, fields); err != nil {
		log.Printf("[records] update failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update record")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(id); err != nil {
		log.Printf("[records] delete failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}
