package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kerjapay/payroll-backend-go/internal/domain/attendance"
	"github.com/kerjapay/payroll-backend-go/internal/domain/claim"
	"github.com/kerjapay/payroll-backend-go/internal/domain/employee"
	"github.com/kerjapay/payroll-backend-go/internal/domain/leave"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	domainPolicy "github.com/kerjapay/payroll-backend-go/internal/domain/policy"
	"github.com/kerjapay/payroll-backend-go/internal/pkg/database"
	"github.com/kerjapay/payroll-backend-go/internal/repository/postgresql"
	"github.com/kerjapay/payroll-backend-go/internal/service/outstation"
	policyService "github.com/kerjapay/payroll-backend-go/internal/service/policy"
	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// createConcurrency bounds the per-employee fan-out during run creation.
const createConcurrency = 8

type PayrollServiceImpl struct {
	db             *database.DB
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	claimRepo      claim.ClaimRepository
	commissionRepo claim.CommissionRepository
	leaveRepo      leave.LeaveRepository
	resolver       *policyService.Resolver
	outstation     *outstation.Engine
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayrollService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	claimRepo claim.ClaimRepository,
	commissionRepo claim.CommissionRepository,
	leaveRepo leave.LeaveRepository,
	resolver *policyService.Resolver,
	outstationEngine *outstation.Engine,
	logger *slog.Logger,
) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		db:             db,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		claimRepo:      claimRepo,
		commissionRepo: commissionRepo,
		leaveRepo:      leaveRepo,
		resolver:       resolver,
		outstation:     outstationEngine,
		logger:         logger,
		now:            time.Now,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func periodBounds(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// ========== RUN CREATION ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.CreateRunResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.CreateRunResult{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CreateRunResult{}, err
	}

	// A run is created once per scope and period.
	_, err = s.payrollRepo.GetRunByScopePeriod(ctx, companyID, req.DepartmentID, req.PeriodMonth, req.PeriodYear)
	if err == nil {
		return payroll.CreateRunResult{}, payroll.ErrRunAlreadyExists
	}
	if !errors.Is(err, payroll.ErrRunNotFound) {
		return payroll.CreateRunResult{}, fmt.Errorf("failed to check existing run: %w", err)
	}

	cfg := s.resolver.Resolve(ctx, companyID, req.DepartmentID)
	tables := s.resolver.ResolveRateTables(ctx, companyID)

	employees, err := s.employeeRepo.GetActiveByScope(ctx, companyID, req.DepartmentID)
	if err != nil {
		return payroll.CreateRunResult{}, fmt.Errorf("failed to get employees: %w", err)
	}

	runID := uuid.NewString()

	var mu sync.Mutex
	items := make([]payroll.PayrollItem, 0, len(employees))
	var skipped []payroll.SkippedEmployee
	var carriedForward []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(createConcurrency)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			item, carried, err := s.buildItem(gctx, emp, cfg, tables, runID, req.PeriodMonth, req.PeriodYear)
			if err != nil {
				if errors.Is(err, employee.ErrNoBasicPay) {
					// Partial-success contract: report, never fail the run
					// and never fake a zero that looks computed.
					mu.Lock()
					skipped = append(skipped, payroll.SkippedEmployee{
						EmployeeID:   emp.ID,
						EmployeeName: emp.FullName,
						Reason:       "no resolvable basic pay",
					})
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("failed to compute item for employee %s: %w", emp.ID, err)
			}

			mu.Lock()
			items = append(items, item)
			if carried {
				carriedForward = append(carriedForward, emp.ID)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return payroll.CreateRunResult{}, err
	}

	run := payroll.PayrollRun{
		ID:           runID,
		CompanyID:    companyID,
		DepartmentID: req.DepartmentID,
		PeriodMonth:  req.PeriodMonth,
		PeriodYear:   req.PeriodYear,
		Status:       payroll.RunStatusDraft,
	}
	applyRunTotals(&run, items)

	var created payroll.PayrollRun
	createdItems := make([]payroll.PayrollItem, 0, len(items))
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		created, err = s.payrollRepo.CreateRun(txCtx, run)
		if err != nil {
			return err
		}
		for _, item := range items {
			ci, err := s.payrollRepo.CreateItem(txCtx, item)
			if err != nil {
				return fmt.Errorf("failed to create payroll item for employee %s: %w", item.EmployeeID, err)
			}
			createdItems = append(createdItems, ci)
		}
		return nil
	})
	if err != nil {
		return payroll.CreateRunResult{}, err
	}

	return payroll.CreateRunResult{
		Run:              created,
		Items:            createdItems,
		SkippedEmployees: skipped,
		CarriedForward:   carriedForward,
	}, nil
}

// buildItem assembles one employee's draft item from scratch.
func (s *PayrollServiceImpl) buildItem(
	ctx context.Context,
	emp employee.Employee,
	cfg domainPolicy.Config,
	tables statutory.RateTables,
	runID string,
	month, year int,
) (payroll.PayrollItem, bool, error) {
	if _, err := StrategyFor(emp.Scheme); err != nil {
		return payroll.PayrollItem{}, false, err
	}

	basic, carried, err := s.employeeRepo.ResolveBasicPay(ctx, emp.ID, month, year)
	if err != nil {
		return payroll.PayrollItem{}, false, err
	}

	item := payroll.PayrollItem{
		ID:                     uuid.NewString(),
		RunID:                  runID,
		EmployeeID:             emp.ID,
		CompanyID:              emp.CompanyID,
		Scheme:                 emp.Scheme,
		BasicPayCarriedForward: carried,
		Bonus:                  decimal.Zero,
		ManualDeduction:        decimal.Zero,
	}

	if err := s.deriveItem(ctx, &item, emp, basic, cfg, tables, month, year); err != nil {
		return payroll.PayrollItem{}, false, err
	}
	return item, carried, nil
}

// deriveItem recomputes every engine-derived field of item in place. Manual
// fields (Bonus, ManualDeduction, Remarks) are read, never written: this is
// the partial-overwrite contract shared by creation and recalculation.
func (s *PayrollServiceImpl) deriveItem(
	ctx context.Context,
	item *payroll.PayrollItem,
	emp employee.Employee,
	basic decimal.Decimal,
	cfg domainPolicy.Config,
	tables statutory.RateTables,
	month, year int,
) error {
	start, end := periodBounds(month, year)

	days, err := s.attendanceRepo.ListByEmployeePeriod(ctx, emp.ID, emp.CompanyID, start, end)
	if err != nil {
		return fmt.Errorf("failed to load attendance: %w", err)
	}

	commission, err := s.commissionRepo.SumByEmployeePeriod(ctx, emp.ID, emp.CompanyID, month, year)
	if err != nil {
		return fmt.Errorf("failed to sum commissions: %w", err)
	}

	claims, err := s.claimRepo.SumApprovedUnlinked(ctx, emp.ID, emp.CompanyID, month, year)
	if err != nil {
		return fmt.Errorf("failed to sum claims: %w", err)
	}

	unpaidDays, err := s.leaveRepo.CountUnpaidDays(ctx, emp.ID, emp.CompanyID, month, year)
	if err != nil {
		return fmt.Errorf("failed to count unpaid leave: %w", err)
	}

	var outstationResult payroll.OutstationResult
	outstationResult.TotalAllowance = decimal.Zero
	if emp.Scheme == employee.SchemeDriver && emp.HomeBaseLatitude != nil && emp.HomeBaseLongitude != nil {
		outstationResult = s.outstation.ComputeEligibleDays(
			ctx, emp.ID, days, *emp.HomeBaseLatitude, *emp.HomeBaseLongitude, cfg)
	}

	strategy, err := StrategyFor(emp.Scheme)
	if err != nil {
		return err
	}

	earnings := strategy.ComputeEarnings(EarningsInput{
		BasicPay:   basic,
		Attendance: days,
		Commission: commission,
		Claims:     claims,
		Outstation: outstationResult,
		Config:     cfg,
	})

	item.BasicPay = basic
	item.OvertimeAmount = earnings.Overtime
	item.OvertimeHours = earnings.OvertimeHours
	item.ExtraDayAmount = earnings.ExtraDayAmount
	item.ExtraDays = earnings.ExtraDays
	item.TravelAllowance = earnings.Travel
	item.TravelDays = earnings.TravelDays
	item.FixedAllowance = earnings.Fixed
	item.Commission = earnings.Commission
	item.ClaimsAmount = earnings.Claims
	item.WorkedDays = earnings.WorkedDays

	item.UnpaidLeaveDays = unpaidDays
	item.LeaveDeduction = policyService.DailyRate(basic, cfg).
		Mul(decimal.NewFromInt(int64(unpaidDays))).Round(2)

	item.Gross = item.SumEarnings()
	item.StatutoryBase = strategy.StatutoryBase(*item)

	ytd, err := s.payrollRepo.GetYearToDate(ctx, emp.ID, emp.CompanyID, year, month)
	if err != nil {
		return fmt.Errorf("failed to load year-to-date accumulators: %w", err)
	}

	breakdown, err := statutory.Compute(item.StatutoryBase, emp.Statutory, ytd, tables, s.now())
	if err != nil {
		return fmt.Errorf("statutory computation failed: %w", err)
	}

	item.EmployeeStatutory = breakdown.EmployeeTotal
	item.EmployerStatutory = breakdown.EmployerTotal
	item.WithholdingTax = breakdown.WithholdingTax
	item.ProfileIncomplete = breakdown.ProfileIncomplete
	item.StatutoryDetail = make(map[string]decimal.Decimal, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		item.StatutoryDetail[string(line.Category)] = line.Employee
	}

	item.NetPay = item.Gross.
		Sub(item.LeaveDeduction).
		Sub(item.ManualDeduction).
		Sub(item.EmployeeStatutory).
		Sub(item.WithholdingTax)

	if err := item.CheckInvariants(); err != nil {
		// Engine defect, not a data problem. Abort without partial commit.
		s.logger.Error("payroll item failed arithmetic invariant",
			slog.String("employee_id", emp.ID),
			slog.String("gross", item.Gross.String()),
			slog.String("component_sum", item.SumEarnings().String()))
		return err
	}

	if item.ProfileIncomplete {
		s.logger.Warn("employee profile incomplete, conservative defaults applied",
			slog.String("employee_id", emp.ID))
	}

	return nil
}

// ========== RECALCULATION ==========

func (s *PayrollServiceImpl) RecalcItem(ctx context.Context, itemID string) (payroll.PayrollItem, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	item, err := s.payrollRepo.GetItemByID(ctx, itemID, companyID)
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, item.RunID, companyID)
	if err != nil {
		return payroll.PayrollItem{}, err
	}
	if run.Status != payroll.RunStatusDraft {
		return payroll.PayrollItem{}, payroll.ErrRunNotDraft
	}

	if err := s.recalcOne(ctx, &item, run); err != nil {
		return payroll.PayrollItem{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// Manual fields may have changed since the item was read. Re-read
		// them under the row lock and total from the committed values.
		manual, err := s.payrollRepo.GetItemManualForUpdate(txCtx, item.ID, companyID)
		if err != nil {
			return err
		}
		applyManualFields(&item, manual)
		if err := item.CheckInvariants(); err != nil {
			return err
		}

		if err := s.payrollRepo.UpdateItemDerived(txCtx, item); err != nil {
			return err
		}
		return s.refreshRunTotals(txCtx, run)
	})
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	return s.payrollRepo.GetItemByID(ctx, itemID, companyID)
}

func (s *PayrollServiceImpl) RecalcAll(ctx context.Context, runID string) (payroll.RecalcAllResult, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RecalcAllResult{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.RecalcAllResult{}, err
	}
	if run.Status != payroll.RunStatusDraft {
		return payroll.RecalcAllResult{}, payroll.ErrRunNotDraft
	}

	items, err := s.payrollRepo.ListItemsByRun(ctx, runID, companyID)
	if err != nil {
		return payroll.RecalcAllResult{}, err
	}

	result := payroll.RecalcAllResult{Total: len(items)}
	for i := range items {
		if err := s.recalcOne(ctx, &items[i], run); err != nil {
			return payroll.RecalcAllResult{}, err
		}
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		for i := range items {
			manual, err := s.payrollRepo.GetItemManualForUpdate(txCtx, items[i].ID, companyID)
			if err != nil {
				return err
			}
			applyManualFields(&items[i], manual)
			if err := items[i].CheckInvariants(); err != nil {
				return err
			}
			if err := s.payrollRepo.UpdateItemDerived(txCtx, items[i]); err != nil {
				return err
			}
			result.Recalculated++
		}
		return s.refreshRunTotals(txCtx, run)
	})
	if err != nil {
		return payroll.RecalcAllResult{}, err
	}

	return result, nil
}

// applyManualFields overlays freshly locked manual values onto a
// re-derived item and recomputes the totals that depend on them.
func applyManualFields(item *payroll.PayrollItem, m payroll.ManualFields) {
	item.Bonus = m.Bonus
	item.ManualDeduction = m.ManualDeduction
	item.Remarks = m.Remarks
	item.Gross = item.SumEarnings()
	item.NetPay = item.Gross.
		Sub(item.LeaveDeduction).
		Sub(item.ManualDeduction).
		Sub(item.EmployeeStatutory).
		Sub(item.WithholdingTax)
}

// recalcOne re-derives the derived fields of an existing item from current
// source data. The manual fields already on the item are preserved.
func (s *PayrollServiceImpl) recalcOne(ctx context.Context, item *payroll.PayrollItem, run payroll.PayrollRun) error {
	emp, err := s.employeeRepo.GetByID(ctx, item.EmployeeID, item.CompanyID)
	if err != nil {
		return err
	}

	cfg := s.resolver.Resolve(ctx, run.CompanyID, run.DepartmentID)
	tables := s.resolver.ResolveRateTables(ctx, run.CompanyID)

	basic, carried, err := s.employeeRepo.ResolveBasicPay(ctx, emp.ID, run.PeriodMonth, run.PeriodYear)
	if err != nil {
		return err
	}
	item.BasicPayCarriedForward = carried

	return s.deriveItem(ctx, item, emp, basic, cfg, tables, run.PeriodMonth, run.PeriodYear)
}

// ========== MANUAL EDITS ==========

func (s *PayrollServiceImpl) UpdateItem(ctx context.Context, req payroll.UpdateItemRequest) (payroll.PayrollItem, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollItem{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	item, err := s.payrollRepo.GetItemByID(ctx, req.ID, companyID)
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, item.RunID, companyID)
	if err != nil {
		return payroll.PayrollItem{}, err
	}
	if run.Status != payroll.RunStatusDraft {
		return payroll.PayrollItem{}, payroll.ErrItemLocked
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		if err := s.payrollRepo.UpdateItemManual(txCtx, companyID, req); err != nil {
			return err
		}

		// A bonus changes gross and net; refresh the derived sums so the
		// invariant holds after a manual edit too.
		updated, err := s.payrollRepo.GetItemByID(txCtx, req.ID, companyID)
		if err != nil {
			return err
		}
		updated.Gross = updated.SumEarnings()
		updated.NetPay = updated.Gross.
			Sub(updated.LeaveDeduction).
			Sub(updated.ManualDeduction).
			Sub(updated.EmployeeStatutory).
			Sub(updated.WithholdingTax)
		if err := updated.CheckInvariants(); err != nil {
			return err
		}
		if err := s.payrollRepo.UpdateItemDerived(txCtx, updated); err != nil {
			return err
		}
		return s.refreshRunTotals(txCtx, run)
	})
	if err != nil {
		return payroll.PayrollItem{}, err
	}

	return s.payrollRepo.GetItemByID(ctx, req.ID, companyID)
}

// ========== FINALIZATION ==========

// FinalizeRun performs the atomic draft -> finalized transition: status
// compare-and-set, invariant re-validation, one-time claim linking, item
// locking and total recomputation all inside one transaction. A concurrent
// second call loses the compare-and-set and receives ErrRunNotDraft.
func (s *PayrollServiceImpl) FinalizeRun(ctx context.Context, runID string) (payroll.PayrollRun, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		run, err := s.payrollRepo.GetRunByID(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		if run.Status == payroll.RunStatusFinalized {
			return payroll.ErrRunAlreadyFinalized
		}

		// Compare-and-set first so a losing concurrent call conflicts here
		// instead of repeating the linking below.
		if err := s.payrollRepo.FinalizeRun(txCtx, runID, companyID, userID); err != nil {
			return err
		}

		items, err := s.payrollRepo.ListItemsByRun(txCtx, runID, companyID)
		if err != nil {
			return err
		}
		itemsByEmployee := make(map[string]payroll.PayrollItem, len(items))
		for _, item := range items {
			if err := item.CheckInvariants(); err != nil {
				s.logger.Error("finalize aborted: item failed invariant check",
					slog.String("item_id", item.ID),
					slog.String("employee_id", item.EmployeeID))
				return err
			}
			itemsByEmployee[item.EmployeeID] = item
		}

		// Link approved, unlinked claims inside the period to their
		// employee's item. Each claim links at most once, ever.
		claims, err := s.claimRepo.ListApprovedUnlinked(txCtx, companyID, run.PeriodMonth, run.PeriodYear)
		if err != nil {
			return fmt.Errorf("failed to list claims for linking: %w", err)
		}
		for _, c := range claims {
			item, ok := itemsByEmployee[c.EmployeeID]
			if !ok {
				continue
			}
			if err := s.claimRepo.LinkToItem(txCtx, c.ID, item.ID); err != nil {
				return fmt.Errorf("failed to link claim %s: %w", c.ID, err)
			}
		}

		if err := s.payrollRepo.LockItemsByRun(txCtx, runID, companyID); err != nil {
			return err
		}

		return s.refreshRunTotals(txCtx, run)
	})
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	return s.payrollRepo.GetRunByID(ctx, runID, companyID)
}

func (s *PayrollServiceImpl) DeleteRun(ctx context.Context, runID string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return err
	}
	if run.Status != payroll.RunStatusDraft {
		return payroll.ErrRunNotDraft
	}

	// Run and item deletes commit together or not at all.
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		return s.payrollRepo.DeleteRun(txCtx, runID, companyID)
	})
}

// refreshRunTotals recomputes a run's aggregates from its items. Totals are
// derived, never hand-set.
func (s *PayrollServiceImpl) refreshRunTotals(ctx context.Context, run payroll.PayrollRun) error {
	items, err := s.payrollRepo.ListItemsByRun(ctx, run.ID, run.CompanyID)
	if err != nil {
		return err
	}
	applyRunTotals(&run, items)
	return s.payrollRepo.UpdateRunTotals(ctx, run)
}

func applyRunTotals(run *payroll.PayrollRun, items []payroll.PayrollItem) {
	run.TotalGross = decimal.Zero
	run.TotalEmployeeStatutory = decimal.Zero
	run.TotalEmployerStatutory = decimal.Zero
	run.TotalWithholdingTax = decimal.Zero
	run.TotalNetPay = decimal.Zero
	for _, item := range items {
		run.TotalGross = run.TotalGross.Add(item.Gross)
		run.TotalEmployeeStatutory = run.TotalEmployeeStatutory.Add(item.EmployeeStatutory)
		run.TotalEmployerStatutory = run.TotalEmployerStatutory.Add(item.EmployerStatutory)
		run.TotalWithholdingTax = run.TotalWithholdingTax.Add(item.WithholdingTax)
		run.TotalNetPay = run.TotalNetPay.Add(item.NetPay)
	}
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, runID string) (payroll.PayrollRun, []payroll.PayrollItem, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRun{}, nil, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return payroll.PayrollRun{}, nil, err
	}
	items, err := s.payrollRepo.ListItemsByRun(ctx, runID, companyID)
	if err != nil {
		return payroll.PayrollRun{}, nil, err
	}
	return run, items, nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.payrollRepo.ListRuns(ctx, companyID, filter)
}

func (s *PayrollServiceImpl) GetRunSummary(ctx context.Context, runID string) (payroll.RunSummary, error) {
	run, items, err := s.GetRun(ctx, runID)
	if err != nil {
		return payroll.RunSummary{}, err
	}
	return payroll.RunSummary{
		RunID:                  run.ID,
		Status:                 string(run.Status),
		EmployeeCount:          len(items),
		TotalGross:             run.TotalGross,
		TotalEmployeeStatutory: run.TotalEmployeeStatutory,
		TotalEmployerStatutory: run.TotalEmployerStatutory,
		TotalWithholdingTax:    run.TotalWithholdingTax,
		TotalNetPay:            run.TotalNetPay,
	}, nil
}

// ========== EXPORT ==========

// ExportBankTransfer returns the bank upload rows for a finalized run. Net
// pay comes from the persisted items: the engine is the authoritative source,
// the column layout belongs to the tenant's bank template.
func (s *PayrollServiceImpl) ExportBankTransfer(ctx context.Context, runID string) ([]payroll.BankTransferRow, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	run, err := s.payrollRepo.GetRunByID(ctx, runID, companyID)
	if err != nil {
		return nil, err
	}
	if run.Status != payroll.RunStatusFinalized {
		return nil, payroll.ErrRunNotFinalized
	}

	return s.payrollRepo.ListBankTransferRows(ctx, runID, companyID)
}

// ========== DIRECT ENGINE ACCESS ==========

// ComputeStatutory exposes the pure calculator to callers that need a
// breakdown outside a run, e.g. what-if checks from the admin UI.
func (s *PayrollServiceImpl) ComputeStatutory(ctx context.Context, base decimal.Decimal, profile statutory.Profile, ytd statutory.YTD) (statutory.Breakdown, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return statutory.Breakdown{}, err
	}
	tables := s.resolver.ResolveRateTables(ctx, companyID)
	return statutory.Compute(base, profile, ytd, tables, s.now())
}

// ComputeOutstationAllowance runs the eligibility engine for one employee and
// period without touching any run.
func (s *PayrollServiceImpl) ComputeOutstationAllowance(ctx context.Context, employeeID string, from, to time.Time) (payroll.OutstationResult, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.OutstationResult{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return payroll.OutstationResult{}, err
	}
	if emp.HomeBaseLatitude == nil || emp.HomeBaseLongitude == nil {
		return payroll.OutstationResult{TotalAllowance: decimal.Zero}, nil
	}

	days, err := s.attendanceRepo.ListByEmployeePeriod(ctx, employeeID, companyID, from, to)
	if err != nil {
		return payroll.OutstationResult{}, err
	}

	cfg := s.resolver.Resolve(ctx, companyID, emp.DepartmentID)
	return s.outstation.ComputeEligibleDays(ctx, employeeID, days, *emp.HomeBaseLatitude, *emp.HomeBaseLongitude, cfg), nil
}
