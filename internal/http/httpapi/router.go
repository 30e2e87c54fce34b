package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/LaykenV/teach-magic-server/internal/http/handlers"
	"github.com/LaykenV/teach-magic-server/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)
	if app.Config.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/auth/google", app.AuthGoogleVerify)
	r.Post("/v1/payments/webhook", app.PaymentWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Get("/v1/me", app.Me)
		r.Delete("/v1/me", app.DeleteMe)

		r.Route("/v1/creations", func(r chi.Router) {
			r.Post("/", app.CreateCreation)
			r.Get("/", app.ListCreations)
			r.Delete("/", app.DeleteCreation)
			r.Get("/{id}", app.GetCreation)
			r.Get("/{id}/export", app.ExportCreation)
			r.Post("/{id}/slides/{index}/image", app.RegenerateSlideImage)
		})
	})

	// Generated images are served straight from local storage.
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Config.StoragePath)))
	r.Get("/static/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
