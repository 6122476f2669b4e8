package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/docstore"
	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/services"
)

// Deps bundles everything the router serves.
type Deps struct {
	Users    *services.Users
	Gallery  *services.Gallery
	Contacts *services.Contacts

	Clients    *entity.Repository
	Team       *entity.Repository
	Portfolios *entity.Repository
	Services   *entity.Repository
	Sentences  *entity.Repository

	Store docstore.Store

	MaxUpload     int64
	AllowedOrigin string
	Log           logging.Logger
}

// NewRouter wires every API route with its auth requirements.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Log))
	r.Use(middleware.Recoverer)
	r.Use(CORS(d.AllowedOrigin))

	requireAuth := RequireAuth(d.Users)
	optionalAuth := OptionalAuth(d.Users)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusOK, "API is running...")
	})
	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		status, code := "ok", http.StatusOK
		if d.Store != nil {
			if err := d.Store.Ping(req.Context()); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		writeJSON(w, code, map[string]string{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	auth := &AuthHandler{Users: d.Users}
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
		r.With(requireAuth).Get("/me", auth.Me)
		r.With(requireAuth, RequireAdmin).Get("/users", auth.ListUsers)
	})

	clients := &Resource{
		Repo:        d.Clients,
		Name:        "Client",
		UploadField: "image",
		AllowedExts: imageExts,
		MaxUpload:   d.MaxUpload,
		JSONFields:  []string{"isActive"},
		ListFilter:  ActiveUnlessAdminAll,
	}
	r.Route("/api/clients", func(r chi.Router) {
		r.With(optionalAuth).Get("/", clients.List)
		r.Get("/{id}", clients.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, RequireAdmin)
			r.Post("/", clients.Create)
			r.Put("/{id}", clients.Update)
			r.Delete("/{id}", clients.Delete)
		})
	})

	mountResource(r, "/api/team", &Resource{
		Repo:        d.Team,
		Name:        "Team member",
		UploadField: "image",
		AllowedExts: imageExts,
		MaxUpload:   d.MaxUpload,
	}, requireAuth)

	mountResource(r, "/api/portfolios", &Resource{
		Repo:        d.Portfolios,
		Name:        "Portfolio",
		UploadField: "image",
		AllowedExts: imageExts,
		MaxUpload:   d.MaxUpload,
	}, requireAuth)

	mountResource(r, "/api/services", &Resource{
		Repo: d.Services,
		Name: "Service",
	}, requireAuth)

	sentences := &Resource{
		Repo: d.Sentences,
		Name: "Sentence",
		Decorate: func(req *http.Request, doc entity.Document) {
			doc["userAgent"] = req.UserAgent()
		},
	}
	r.Route("/api/sentences", func(r chi.Router) {
		r.Get("/", sentences.List)
		r.Get("/{id}", sentences.Get)
		r.Post("/", sentences.Create)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, RequireAdmin)
			r.Put("/{id}", sentences.Update)
			r.Delete("/{id}", sentences.Delete)
		})
	})

	gallery := &GalleryHandler{Gallery: d.Gallery, MaxUpload: d.MaxUpload}
	r.Route("/api/gallery", func(r chi.Router) {
		r.Get("/", gallery.List)
		r.Get("/item/{id}", gallery.Get)
		r.Get("/categories", gallery.Categories)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, RequireAdmin)
			r.Post("/create", gallery.Create)
			r.Put("/update/{id}", gallery.Update)
			r.Delete("/delete/{id}", gallery.Delete)
			r.Get("/stats", gallery.Stats)
			r.Post("/category/create", gallery.CreateCategory)
			r.Delete("/category/{name}", gallery.DeleteCategory)
		})
	})

	contact := &ContactHandler{Contacts: d.Contacts, MaxUpload: d.MaxUpload}
	r.Route("/api/contact", func(r chi.Router) {
		r.Post("/submit", contact.Submit)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, RequireAdmin)
			r.Get("/submissions", contact.Submissions)
			r.Post("/submissions/{id}/reply", contact.Reply)
		})
	})

	return r
}

// mountResource wires the common layout: public reads, admin-only writes.
func mountResource(r chi.Router, path string, res *Resource, requireAuth func(http.Handler) http.Handler) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", res.List)
		r.Get("/{id}", res.Get)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth, RequireAdmin)
			r.Post("/", res.Create)
			r.Put("/{id}", res.Update)
			r.Delete("/{id}", res.Delete)
		})
	})
}

// requestLogger logs one line per request after it completes, through a
// child logger scoped to the request's method and path.
func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.With("method", r.Method, "path", r.URL.Path).Info(r.Context(), "request",
				"status", ww.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
