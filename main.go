package main

import (
	"log"
	"net/http"

	"github.com/PromptFeedback/PF-Backend/internal/auth"
	"github.com/PromptFeedback/PF-Backend/internal/config"
	"github.com/PromptFeedback/PF-Backend/internal/db"
	"github.com/PromptFeedback/PF-Backend/internal/llm"
	"github.com/PromptFeedback/PF-Backend/internal/middleware"
	"github.com/PromptFeedback/PF-Backend/internal/pages"
	"github.com/PromptFeedback/PF-Backend/internal/records"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	db.Connect(cfg.DatabaseURL)
	auth.Init()
	records.Init()

	creds := auth.NewCredentialStore(db.DB, cfg.PasswordLength)
	sessions := auth.NewSessionManager(db.DB, creds, cfg.SessionTTL())

	authHandler := auth.NewHandler(creds, sessions, cfg)
	recordsHandler := records.NewHandler(records.NewStore(db.DB))
	llmHandler := llm.NewHandler(llm.NewClient(cfg.OpenAIKey, cfg.OpenAIModel))
	pageServer := pages.NewServer(cfg.RootDir, authHandler.AutoLogin)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Route("/api", func(api chi.Router) {
		authHandler.Register(api)

		// Cheap reads and the LLM proxy calls need a participant session.
		api.Group(func(g chi.Router) {
			g.Use(middleware.RequireParticipant(sessions))
			g.Post("/evaluate", llmHandler.Evaluate)
			g.Post("/facilitator-feedback", llmHandler.FacilitatorFeedback)
		})

		// Writes re-validate the bound password against the store, so a
		// deleted or expired workshop password cuts submissions off live.
		api.Group(func(g chi.Router) {
			g.Use(middleware.RequireLiveCredential(sessions, creds, sessions))
			g.Post("/record", recordsHandler.Create)
		})

		api.Group(func(g chi.Router) {
			g.Use(middleware.RequireAdmin(sessions))
			g.Get("/records", recordsHandler.List)
			g.Put("/record/{id}", recordsHandler.Update)
			g.Delete("/record/{id}", recordsHandler.Delete)
			authHandler.RegisterAdmin(g)
		})
	})

	r.Get("/", pageServer.Participant)
	r.Get("/admin", pageServer.Admin)
	r.Get("/{candidate}", pageServer.Candidate)
	r.NotFound(pageServer.Participant)

	log.Printf("Prompt feedback backend listening on port :%s...", cfg.Port)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
