package http

import (
	"net/http"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/http/handler"
	mw "inkwell/internal/http/middleware"
	"inkwell/internal/jobs"
	"inkwell/internal/journal"
	"inkwell/internal/logging"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Services are the collaborators the router wires into its handlers.
type Services struct {
	JWT    *auth.JWT
	Auth   *auth.Service
	Store  *journal.Store
	Jobs   *jobs.Repo
	Logger logging.Logger
	// Now overrides the wall clock used to resolve "today"
	Now func() time.Time
}

func NewRouter(cfg config.Config, svc Services) http.Handler {
	logger := svc.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog(logger))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ah := &handler.AuthHandler{Auth: svc.Auth, JWT: svc.JWT, Logger: logger}
	r.Post("/auth/code", ah.RequestCode)
	r.Post("/auth/verify", ah.Verify)

	sessions := handler.NewSessions()
	cal := handler.Calendar{Location: cfg.Timezone, Now: svc.Now}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(svc.JWT, logger))

		me := &handler.MeHandler{Auth: svc.Auth, Logger: logger}
		r.Get("/me", me.Me)
		r.Put("/me/pin", me.SetPIN)
		r.Post("/me/pin/verify", me.VerifyPIN)

		eh := &handler.EntryHandler{Store: svc.Store, Jobs: svc.Jobs, Sessions: sessions, Calendar: cal, Logger: logger}
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", eh.Create)
			r.Get("/", eh.List)
			r.Get("/stream", eh.Stream)

			r.Get("/{id}", eh.Get)
			r.Put("/{id}", eh.Update)
			r.Delete("/{id}", eh.Delete)
			r.Put("/{id}/tags", eh.UpdateTags)
			r.Post("/{id}/lock", eh.Lock)
			r.Post("/{id}/updates", eh.AddUpdate)
			r.Post("/{id}/bookmark", eh.ToggleBookmark)
			r.Get("/{id}/timeline", eh.Timeline)
		})

		ih := &handler.InsightHandler{Store: svc.Store, Sessions: sessions, Calendar: cal, Logger: logger}
		r.Get("/days/{day}", ih.Day)
		r.Get("/streak", ih.Streak)
		r.Get("/milestones", ih.Milestones)
		r.Get("/tags", ih.Tags)
		r.Put("/tags/{name}/color", ih.SetTagColor)
		r.Get("/moods", ih.Moods)
	})

	return r
}
