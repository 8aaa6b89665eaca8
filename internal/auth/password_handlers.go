package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// Admin-only password lifecycle endpoints. The gate in front of these is
// wired up in main.go.

func (h *Handler) ListPasswords(w http.ResponseWriter, r *http.Request) {
	creds, err := h.Creds.List()
	if err != nil {
		log.Printf("[auth] list passwords failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch passwords")
		return
	}
	utils.RespondJSON(w, http.StatusOK, creds)
}

// CreatePassword mints a new workshop password. The response is the only time
// the cleartext value leaves the server, so the admin can hand it out.
func (h *Handler) CreatePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		WorkshopName string `json:"workshopName"`
		ExpiryDate   string `json:"expiryDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.WorkshopName == "" || input.ExpiryDate == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing workshopName or expiryDate")
		return
	}

	expiry, err := parseExpiry(input.ExpiryDate)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid expiryDate")
		return
	}

	cred, err := h.Creds.Create(input.WorkshopName, expiry)
	if err != nil {
		log.Printf("[auth] create password failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create password")
		return
	}
	utils.RespondJSON(w, http.StatusOK, cred)
}

// parseExpiry accepts a full timestamp or a bare date. A bare date means the
// password lasts through that whole day.
func parseExpiry(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}

func (h *Handler) DeletePassword(w http.ResponseWriter, r *http.Request) {
	password := chi.URLParam(r, "id")
	if err := h.Creds.Delete(password); err != nil {
		log.Printf("[auth] delete password failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete password")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) DeleteExpiredPasswords(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Creds.DeleteExpired(time.Now())
	if err != nil {
		log.Printf("[auth] expired cleanup failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete expired passwords")
		return
	}

	passwords := make([]string, 0, len(deleted))
	for _, cred := range deleted {
		passwords = append(passwords, cred.Password)
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"deletedCount":     len(deleted),
		"deletedPasswords": passwords,
	})
}

func (h *Handler) CleanupHistory(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Creds.CleanupHistory()
	if err != nil {
		log.Printf("[auth] cleanup history failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch cleanup history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, runs)
}
