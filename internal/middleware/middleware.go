package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/PromptFeedback/PF-Backend/internal/auth"
	"github.com/PromptFeedback/PF-Backend/internal/utils"
)

type SessionFetcher interface {
	FindSessionByID(id string) (utils.SessionData, error)
}

// CredentialValidator re-checks a password against the credential store. The
// strict gate uses it because sessions don't track revocation: a password can
// be deleted or expire after the session was established.
type CredentialValidator interface {
	IsValid(password string, now time.Time) (bool, error)
}

type SessionDestroyer interface {
	Destroy(token string) error
}

// resolveSession pulls the cookie, fetches the session and rejects expired or
// missing ones. Returns the session data and whether the request may proceed;
// on false the 401 has already been written.
func resolveSession(w http.ResponseWriter, r *http.Request, fetcher SessionFetcher) (utils.SessionData, bool) {
	cookie, err := r.Cookie(auth.SessionCookieName)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return utils.SessionData{}, false
	}

	session, err := fetcher.FindSessionByID(cookie.Value)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return utils.SessionData{}, false
	}

	if session.ExpiresAt.Before(time.Now()) {
		utils.RespondError(w, http.StatusUnauthorized, "Session expired")
		return utils.SessionData{}, false
	}

	return session, true
}

// RequireParticipant passes requests whose session is participant-authenticated.
func RequireParticipant(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := resolveSession(w, r, fetcher)
			if !ok {
				return
			}
			if !session.Participant {
				utils.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextSessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLiveCredential is the strict participant gate: on top of participant
// authentication it re-validates the bound workshop password against the
// credential store at request time. A revoked or expired password destroys
// the session outright, forcing a fresh login.
func RequireLiveCredential(fetcher SessionFetcher, creds CredentialValidator, sessions SessionDestroyer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := resolveSession(w, r, fetcher)
			if !ok {
				return
			}
			if !session.Participant {
				utils.RespondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			valid, err := creds.IsValid(session.BoundPassword, time.Now())
			if err != nil {
				log.Printf("[middleware] credential re-check failed: %v", err)
				utils.RespondError(w, http.StatusInternalServerError, "Credential check failed")
				return
			}
			if !valid {
				if err := sessions.Destroy(session.SessionID); err != nil {
					log.Printf("[middleware] failed to destroy revoked session: %v", err)
				}
				auth.ClearSessionCookie(w)
				utils.RespondError(w, http.StatusUnauthorized, "Workshop password revoked")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextSessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin passes requests whose session is admin-authenticated.
func RequireAdmin(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := resolveSession(w, r, fetcher)
			if !ok {
				return
			}
			if !session.IsAdmin {
				utils.RespondError(w, http.StatusUnauthorized, "Admin authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextSessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Echo the origin back only if it's on our allow-list
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
