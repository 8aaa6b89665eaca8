package pages

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// AutoLoginFunc attempts a participant login for a password-looking path
// segment, setting the session cookie on success and staying silent on
// failure.
type AutoLoginFunc func(w http.ResponseWriter, r *http.Request, candidate string)

// Server serves the two static pages. Workshops hand out a single URL of the
// form https://host/482913 — the path segment is the workshop password, tried
// as a login before the participant page is served regardless of outcome.
type Server struct {
	rootDir   string
	autoLogin AutoLoginFunc
}

func NewServer(rootDir string, autoLogin AutoLoginFunc) *Server {
	return &Server{rootDir: rootDir, autoLogin: autoLogin}
}

// LooksLikePassword reports whether a path segment should be tried as a
// workshop password: not the admin page, not an API path, and not a file
// name (no dot).
func LooksLikePassword(segment string) bool {
	if segment == "" || segment == "admin" || segment == "api" {
		return false
	}
	return !strings.Contains(segment, ".")
}

func (s *Server) Participant(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.rootDir, "user.html"))
}

func (s *Server) Admin(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.rootDir, "admin.html"))
}

// Candidate handles GET /{candidate}: a real static file is served as-is,
// anything password-shaped triggers an auto-login attempt, and the
// participant page comes back in every case.
func (s *Server) Candidate(w http.ResponseWriter, r *http.Request) {
	candidate := chi.URLParam(r, "candidate")

	// Single path segment only; chi's wildcard never matches "/", but keep
	// traversal out of ServeFile's way regardless.
	if candidate != filepath.Base(candidate) {
		http.NotFound(w, r)
		return
	}

	if strings.Contains(candidate, ".") {
		path := filepath.Join(s.rootDir, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.NotFound(w, r)
		return
	}

	if LooksLikePassword(candidate) && s.autoLogin != nil {
		s.autoLogin(w, r, candidate)
	}
	s.Participant(w, r)
}
