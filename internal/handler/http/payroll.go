package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kerjapay/payroll-backend-go/internal/domain/payroll"
	"github.com/kerjapay/payroll-backend-go/internal/handler/http/response"
	"github.com/kerjapay/payroll-backend-go/internal/statutory"
	"github.com/shopspring/decimal"
)

type PayrollHandler interface {
	// Runs
	CreateRun(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	FinalizeRun(w http.ResponseWriter, r *http.Request)
	DeleteRun(w http.ResponseWriter, r *http.Request)
	GetRunSummary(w http.ResponseWriter, r *http.Request)
	RecalcRun(w http.ResponseWriter, r *http.Request)
	ExportBankTransfer(w http.ResponseWriter, r *http.Request)

	// Items
	UpdateItem(w http.ResponseWriter, r *http.Request)
	RecalcItem(w http.ResponseWriter, r *http.Request)

	// Direct computation surfaces
	ComputeStatutory(w http.ResponseWriter, r *http.Request)
	ComputeOutstationAllowance(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateRun(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run created", result)
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, items, err := h.payrollService.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"run":   run,
		"items": items,
	})
}

func (h *payrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	filter := payroll.RunFilter{
		Page:  1,
		Limit: 20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if monthStr := r.URL.Query().Get("period_month"); monthStr != "" {
		if month, err := strconv.Atoi(monthStr); err == nil {
			filter.PeriodMonth = month
		}
	}
	if yearStr := r.URL.Query().Get("period_year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.PeriodYear = year
		}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := payroll.RunStatus(status)
		filter.Status = &s
	}
	if departmentID := r.URL.Query().Get("department_id"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}

	runs, total, err := h.payrollService.ListRuns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, runs, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

func (h *payrollHandlerImpl) FinalizeRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.payrollService.FinalizeRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run finalized", run)
}

func (h *payrollHandlerImpl) DeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	if err := h.payrollService.DeleteRun(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run deleted successfully", nil)
}

func (h *payrollHandlerImpl) GetRunSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRunSummary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RecalcRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.RecalcAll(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run recalculated", result)
}

func (h *payrollHandlerImpl) ExportBankTransfer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	rows, err := h.payrollService.ExportBankTransfer(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// ========== ITEMS ==========

func (h *payrollHandlerImpl) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", nil)
		return
	}

	var req payroll.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RecalcItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Item ID is required", nil)
		return
	}

	result, err := h.payrollService.RecalcItem(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll item recalculated", result)
}

// ========== DIRECT COMPUTATION ==========

type computeStatutoryRequest struct {
	StatutoryBase decimal.Decimal   `json:"statutory_base"`
	Profile       statutory.Profile `json:"profile"`
	YTD           statutory.YTD     `json:"ytd"`
}

func (h *payrollHandlerImpl) ComputeStatutory(w http.ResponseWriter, r *http.Request) {
	var req computeStatutoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	breakdown, err := h.payrollService.ComputeStatutory(r.Context(), req.StatutoryBase, req.Profile, req.YTD)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, breakdown)
}

func (h *payrollHandlerImpl) ComputeOutstationAllowance(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if employeeID == "" || fromStr == "" || toStr == "" {
		response.BadRequest(w, "employee_id, from and to are required", nil)
		return
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		response.BadRequest(w, "Invalid from date, expected YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		response.BadRequest(w, "Invalid to date, expected YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		response.BadRequest(w, "to must not be before from", nil)
		return
	}

	result, err := h.payrollService.ComputeOutstationAllowance(r.Context(), employeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
