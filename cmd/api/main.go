package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kerjapay/payroll-backend-go/internal/config"
	appHTTP "github.com/kerjapay/payroll-backend-go/internal/handler/http"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/delivery"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/jwt"
	"github.com/kerjapay/payroll-backend-go/internal/repository/postgresql"
	outstationService "github.com/kerjapay/payroll-backend-go/internal/service/outstation"
	payrollService "github.com/kerjapay/payroll-backend-go/internal/service/payroll"
	policyService "github.com/kerjapay/payroll-backend-go/internal/service/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-kerjapay"),
		slog.String("env", cfg.App.Env),
	)

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	payrollRepo := postgresql.NewPayrollRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	claimRepo := postgresql.NewClaimRepository(db)
	commissionRepo := postgresql.NewCommissionRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	policyRepo := postgresql.NewPolicyRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiration)

	deliveryClient := delivery.NewClient(
		cfg.Delivery.BaseURL,
		cfg.Delivery.APIKey,
		time.Duration(cfg.Engine.ActivityLookupTimeoutSecs)*time.Second,
	)

	policyResolver := policyService.NewResolver(policyRepo, policyService.EngineDefaults(cfg.Engine), logger)
	outstationEngine := outstationService.NewEngine(deliveryClient, logger)
	payrollSvc := payrollService.NewPayrollService(
		db,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		claimRepo,
		commissionRepo,
		leaveRepo,
		policyResolver,
		outstationEngine,
		logger,
	)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(cfg, jwtService, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
