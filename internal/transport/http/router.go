package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"photo-quiz-service/internal/app"
	"photo-quiz-service/internal/storage"
)

// Deps wires the router.
type Deps struct {
	Service     *app.QuizService
	Uploads     *storage.FSStore
	StaticDir   string
	CORSOrigins []string
}

// NewRouter mounts the quiz API, admin API, change feed and static pages.
func NewRouter(d Deps) http.Handler {
	quiz := NewQuizHandler(d.Service)
	admin := NewAdminHandler(d.Service, d.Uploads)
	ws := NewWSHandler(d.Service)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/health", quiz.Health)

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/quiz", quiz.Quiz)
		ar.Get("/quiz/short", quiz.ShortQuiz)

		ar.Route("/admin", func(adm chi.Router) {
			adm.Post("/add", admin.Add)
			adm.Post("/bulk-add", admin.BulkAdd)
			adm.Get("/questions", admin.List)
			adm.Put("/edit/{index}", admin.Edit)
			adm.Delete("/delete-all", admin.DeleteAll)
			adm.Post("/upload-bgmusic", admin.UploadMusic)
		})
	})

	r.Get("/ws/admin", ws.ServeWS)

	for route, file := range Pages {
		r.Get(route, pageHandler(d.StaticDir, file))
	}
	r.NotFound(assetsHandler(d.StaticDir))

	return r
}
