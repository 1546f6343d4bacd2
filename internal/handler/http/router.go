package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/kerjapay/payroll-backend-go/internal/config"
	"github.com/kerjapay/payroll-backend-go/internal/handler/http/middleware"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(cfg *config.Config, jwtService jwt.Service, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-kerjapay"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication with a company scope
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))
			r.Use(middleware.RequireCompany)

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/runs", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateRun)
					r.Get("/", payrollHandler.ListRuns)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetRun)
						r.Delete("/", payrollHandler.DeleteRun)
						r.Post("/finalize", payrollHandler.FinalizeRun)
						r.Post("/recalculate", payrollHandler.RecalcRun)
						r.Get("/summary", payrollHandler.GetRunSummary)
						r.Get("/bank-transfer", payrollHandler.ExportBankTransfer)
					})
				})

				r.Route("/items/{id}", func(r chi.Router) {
					r.Patch("/", payrollHandler.UpdateItem)
					r.Post("/recalculate", payrollHandler.RecalcItem)
				})

				r.Post("/statutory-contributions", payrollHandler.ComputeStatutory)
				r.Get("/outstation-allowance", payrollHandler.ComputeOutstationAllowance)
			})
		})
	})
	return r
}
