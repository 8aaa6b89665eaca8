package auth

import "github.com/go-chi/chi/v5"

// Register mounts the public auth endpoints on an /api subrouter.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/admin-login", h.AdminLogin)
	r.Post("/logout", h.Logout)
	r.Get("/auth-status", h.Status)
	r.Get("/storage-mode", h.StorageMode)
}

// RegisterAdmin mounts the password lifecycle endpoints; the caller wraps the
// router in the admin gate.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/passwords", h.ListPasswords)
	r.Post("/password", h.CreatePassword)
	r.Delete("/password/{id}", h.DeletePassword)
	r.Delete("/passwords/expired", h.DeleteExpiredPasswords)
	r.Get("/cleanup-history", h.CleanupHistory)
}
