package llm

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/PromptFeedback/PF-Backend/internal/utils"
)

type Handler struct {
	Client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

type proxyInput struct {
	Prompt             string `json:"prompt"`
	SystemInstructions string `json:"systemInstructions"`
}

// Evaluate proxies a participant's prompt to the model and returns the
// evaluation notes.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var input proxyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Prompt == "" || input.SystemInstructions == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing prompt or systemInstructions")
		return
	}

	notes, err := h.Client.Complete(r.Context(), input.SystemInstructions, input.Prompt)
	if err != nil {
		h.respondUpstreamError(w, "evaluate", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"notes": notes})
}

// FacilitatorFeedback generates the facilitator-facing feedback text. Only
// the prompt is required here; the instructions default to empty upstream.
func (h *Handler) FacilitatorFeedback(w http.ResponseWriter, r *http.Request) {
	var input proxyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing prompt")
		return
	}

	feedback, err := h.Client.Complete(r.Context(), input.SystemInstructions, input.Prompt)
	if err != nil {
		h.respondUpstreamError(w, "facilitator-feedback", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"feedback": feedback})
}

// respondUpstreamError passes an upstream status straight through and folds
// everything else into a 500.
func (h *Handler) respondUpstreamError(w http.ResponseWriter, op string, err error) {
	log.Printf("[llm] %s failed: %v", op, err)

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		utils.RespondError(w, upstream.StatusCode, "OpenAI API error")
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
}
