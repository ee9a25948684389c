package server

import (
	_ "embed"
	"net/http"

	"github.com/compozy/demoutils/pkg/config"
	"github.com/go-chi/chi/v5"
)

//go:embed static/demo.html
var demoPage []byte

// NewRouter wires routes and middlewares. A nil limiter disables rate limiting.
func NewRouter(cfg *config.Config, lm *LimiterMap) http.Handler {
	h := &Handlers{RandomMin: cfg.Demo.RandomMin, RandomMax: cfg.Demo.RandomMax}

	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger)
	r.Use(CORS)
	if lm != nil {
		r.Use(RateLimit(lm, cfg.Server.TrustProxy))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", serveDemoPage)
	r.Get("/demo.html", serveDemoPage)

	r.Route("/api", func(api chi.Router) {
		api.Get("/greet", h.Greet)
		api.Get("/add", h.Add)
		api.Get("/multiply", h.Multiply)
		api.Get("/is-even", h.IsEven)
		api.Get("/date", h.Date)
		api.Get("/random", h.Random)
	})

	return r
}

func serveDemoPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(demoPage)
}
