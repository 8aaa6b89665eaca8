package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/config"
	"github.com/PromptFeedback/PF-Backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const SessionCookieName = "session_id"

// Handler carries the auth endpoints' dependencies. Stores are passed in
// explicitly rather than reached through package globals.
type Handler struct {
	Creds    *CredentialStore
	Sessions *SessionManager
	cfg      config.Config
	limiter  *ipLimiter
}

func NewHandler(creds *CredentialStore, sessions *SessionManager, cfg config.Config) *Handler {
	return &Handler{
		Creds:    creds,
		Sessions: sessions,
		cfg:      cfg,
		// One attempt per 2s sustained, small burst for typos.
		limiter: newIPLimiter(0.5, 5),
	}
}

func cookieToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.cfg.SessionTTL().Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.SecureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// Login exchanges a workshop password for a participant-authenticated session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing password")
		return
	}

	session, err := h.Sessions.LoginParticipant(cookieToken(r), input.Password, time.Now())
	if errors.Is(err, ErrInvalidCredential) {
		utils.RespondError(w, http.StatusUnauthorized, ErrInvalidCredential.Error())
		return
	}
	if err != nil {
		log.Printf("[auth] login failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.setSessionCookie(w, session.SessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"workshopName": session.WorkshopName,
	})
}

// AdminLogin checks the supplied password against the configured admin secret.
// Comparison is constant-time either way: bcrypt when a hash is configured,
// subtle.ConstantTimeCompare for a plaintext secret.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		utils.RespondError(w, http.StatusTooManyRequests, "Too many attempts, slow down")
		return
	}

	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing password")
		return
	}

	if !h.adminSecretMatches(input.Password) {
		utils.RespondError(w, http.StatusUnauthorized, ErrInvalidAdminCredential.Error())
		return
	}

	session, err := h.Sessions.LoginAdmin(cookieToken(r), time.Now())
	if err != nil {
		log.Printf("[auth] admin login failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.setSessionCookie(w, session.SessionID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) adminSecretMatches(supplied string) bool {
	if h.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(supplied)) == nil
	}
	if h.cfg.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.cfg.AdminPassword), []byte(supplied)) == 1
}

// Logout destroys the session entirely — participant and admin state both.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := cookieToken(r); token != "" {
		if err := h.Sessions.Destroy(token); err != nil {
			log.Printf("[auth] logout failed: %v", err)
		}
	}
	ClearSessionCookie(w)
	utils.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Status is a pure read of the session; the front end uses it to pick which
// UI to render. Never 401s — an anonymous browser is a normal answer.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"authenticated": false,
		"isAdmin":       false,
		"workshopName":  nil,
	}

	if token := cookieToken(r); token != "" {
		session, err := h.Sessions.Get(token, time.Now())
		if err == nil {
			response["authenticated"] = session.Participant
			response["isAdmin"] = session.IsAdmin
			if session.Participant {
				response["workshopName"] = session.WorkshopName
			}
		} else if !errors.Is(err, ErrNoSession) {
			log.Printf("[auth] status lookup failed: %v", err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, response)
}

// StorageMode exposes the browser-storage toggle to the front end.
func (h *Handler) StorageMode(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"useLocalStorage": h.cfg.UseLocalStorage,
	})
}

// AutoLogin attempts a participant login with a password embedded in the page
// URL. Failures are deliberately silent: the page is served either way, and a
// bad guess in the address bar should look exactly like no guess at all.
func (h *Handler) AutoLogin(w http.ResponseWriter, r *http.Request, candidate string) {
	session, err := h.Sessions.LoginParticipant(cookieToken(r), candidate, time.Now())
	if err != nil {
		return
	}
	h.setSessionCookie(w, session.SessionID)
}
