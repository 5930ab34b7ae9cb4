package router

import (
	"database/sql"
	"net/http"

	mem "vidalink/internal/adapters/storage/memory"
	pg "vidalink/internal/adapters/storage/postgres"
	"vidalink/internal/domain/healthevents"
	"vidalink/internal/domain/patients"
	"vidalink/internal/domain/shares"
	"vidalink/internal/middleware"
	"vidalink/internal/platform/logger"
	"vidalink/internal/ports/auth"
	"vidalink/internal/ports/ratelimit"

	_ "vidalink/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Solo sin DB: permite sembrar eventos/pacientes (dev y tests).
	HealthEvents healthevents.Repository
	Patients     patients.Repository

	Logger  logger.Logger
	Limiter ratelimit.AttemptLimiter // nil => sin límite
	Signer  shares.DocumentSigner    // nil => EXPORT sin URLs de descarga

	PublicBaseURL string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var (
		shareStore  shares.Store
		auditLog    shares.AuditLog
		eventRepo   healthevents.Repository
		patientRepo patients.Repository
	)

	if opts.DB != nil {
		shareStore = pg.NewSharesRepo(opts.DB)
		auditLog = pg.NewAuditRepo(opts.DB)
		eventRepo = pg.NewHealthEventsRepo(opts.DB)
		patientRepo = pg.NewPatientsRepo(opts.DB)
	} else {
		auditLog = mem.NewAuditRepo()
		shareStore = mem.NewShareRepo(auditLog)
		eventRepo = opts.HealthEvents
		if eventRepo == nil {
			eventRepo = mem.NewHealthEventRepo()
		}
		patientRepo = opts.Patients
		if patientRepo == nil {
			patientRepo = mem.NewPatientRepo()
		}
	}

	// Services por módulo
	eventsSvc := healthevents.NewService(eventRepo)
	patientsSvc := patients.NewService(patientRepo)
	sharesSvc := shares.NewService(shareStore, auditLog, eventsSvc, log.With(map[string]any{"module": "shares"}))
	projector := shares.NewProjector(eventsSvc, patientsSvc, opts.Signer, log.With(map[string]any{"module": "projector"}))

	shares.RegisterRoutes(r, shares.Routes{
		Service:       sharesSvc,
		Projector:     projector,
		PublicBaseURL: opts.PublicBaseURL,
		AccessLimit:   middleware.AttemptLimit(opts.Limiter, log),
	})

	return r
}
