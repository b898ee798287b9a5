package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/waitlist/internal/hub"
	"github.com/DoyleJ11/waitlist/internal/metrics"
	"github.com/DoyleJ11/waitlist/internal/web"
	"github.com/DoyleJ11/waitlist/internal/ws"
)

const StaticPrefix = "/static"

type Deps struct {
	Waitlist  Waitlist
	Hub       *hub.Hub
	Pages     *web.Pages
	Metrics   *metrics.Metrics
	Log       *zap.Logger
	StaticDir string
}

func SetupRoutes(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	// Pages
	r.Get("/", Page(d.Pages, web.PageIndex, log))
	r.Get("/rank", Page(d.Pages, web.PageRank, log))
	if d.StaticDir != "" {
		r.Handle(StaticPrefix+"/*", http.StripPrefix(StaticPrefix+"/", http.FileServer(http.Dir(d.StaticDir))))
	}

	// JSON API
	r.Post("/signup", Signup(d.Waitlist, d.Metrics, log))
	r.Post("/referral", Referral(d.Waitlist, d.Metrics, log))
	r.Get("/rank-data", RankData(d.Waitlist, log))
	r.Get("/top10", Top10(d.Waitlist, log))

	// Ops
	r.Get("/ws", ws.Handler(d.Hub, log))
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", d.Metrics.Handler())
	return r
}
