package api

import (
	"net/http"

	"github.com/codedbysoumyajit/Blogspot/internal/ai"
	"github.com/codedbysoumyajit/Blogspot/internal/api/handlers"
	"github.com/codedbysoumyajit/Blogspot/internal/config"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Deps holds everything the router wires into handlers. AI may be nil, in
// which case the AI endpoints answer 503.
type Deps struct {
	Posts    storage.PostRepository
	AI       ai.AIProvider
	Cache    *ai.SummaryCache
	Importer handlers.Importer
	Sessions handlers.Sessions
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(deps Deps, server config.ServerConfig, blog config.BlogConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS(server.CORSOrigins))

	r.Get("/feed.xml", handlers.Feed(deps.Posts, handlers.FeedOptions{
		Title:       blog.Title,
		Description: blog.Description,
		BaseURL:     blog.BaseURL,
		Size:        blog.FeedSize,
	}))

	// API sub-router.
	r.Route("/api", func(api chi.Router) {
		api.Get("/posts", handlers.ListPosts(deps.Posts, handlers.ListOptions{
			DefaultLimit: blog.PageSize,
			MaxLimit:     blog.MaxPageSize,
		}))
		api.Get("/posts/{id}", handlers.GetPost(deps.Posts))
		api.Post("/posts/{id}/like", handlers.LikePost(deps.Posts))
		api.Post("/posts/{id}/summary", handlers.SummarizePost(deps.Posts, deps.AI, deps.Cache))
		api.Get("/latest-posts", handlers.LatestPosts(deps.Posts, blog.LatestCount))

		api.Post("/login", handlers.Login(deps.Sessions))
		api.Post("/logout", handlers.Logout(deps.Sessions))
		api.Get("/session", handlers.Session(deps.Sessions))

		// Admin dashboard.
		api.Route("/admin", func(admin chi.Router) {
			admin.Use(RequireAdmin(deps.Sessions))

			admin.Get("/posts", handlers.AdminListPosts(deps.Posts))
			admin.Post("/posts", handlers.CreatePost(deps.Posts))
			admin.Put("/posts/{id}", handlers.UpdatePost(deps.Posts))
			admin.Patch("/posts/{id}", handlers.UpdatePost(deps.Posts))
			admin.Delete("/posts/{id}", handlers.DeletePost(deps.Posts))

			admin.Post("/generate", handlers.GeneratePost(deps.AI))
			admin.Post("/import", handlers.ImportArticle(deps.Importer))
			admin.Post("/import/feed", handlers.ImportFeed(deps.Importer))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})

	return r
}
