/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance service via REST API. Handles HTTP request/response
  and JSON serialization, and delegates to the attendance package.

ENDPOINTS:
  Portal (open, used by the kiosk):
    GET    /api/portal/employees                 Active employees + on-shift flag
    GET    /api/portal/employees/{id}/today      Today's record
    POST   /api/portal/employees/{id}/clock-in   Clock in (no-op if already in)
    POST   /api/portal/employees/{id}/clock-out  Clock out (no-op without open shift)

  Owner (X-Owner-Passcode header):
    GET    /api/employees                        Roster (?all=true includes inactive)
    POST   /api/employees                        Add employee
    GET    /api/employees/{id}                   Employee details
    PATCH  /api/employees/{id}                   Partial update
    DELETE /api/employees/{id}                   Deactivate (?hard=true removes)
    GET    /api/employees/{id}/transactions      Bonuses / deductions
    POST   /api/employees/{id}/transactions      Record bonus / deduction
    GET    /api/attendance?date=YYYY-MM-DD       Daily attendance log
    GET    /api/stats?date=YYYY-MM-DD            Daily dashboard counters
    GET    /api/payroll?date=YYYY-MM-DD          Payroll for the enclosing cycle
    GET    /api/settings                         Settings (without passcode)
    PATCH  /api/settings                         Partial settings change
    GET    /api/export                           Full state document
    POST   /api/import                           Replace state from a document

CLOCK:
  Handlers never call time.Now directly: Handler.Now is the single source of
  "now" so clock rules are testable.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Invalid Passcode
  - 404: Resource not found
  - 409: Conflict
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - auth.go: Passcode guard
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/document"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *attendance.Service
	Now     func() time.Time
}

// NewHandler creates a handler using the wall clock.
func NewHandler(svc *attendance.Service) *Handler {
	return &Handler{Service: svc, Now: time.Now}
}

// =============================================================================
// PORTAL ENDPOINTS
// =============================================================================

// PortalEmployees lists active employees with their on-shift flag for today.
func (h *Handler) PortalEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	today := attendance.DateOf(h.Now())

	entries, err := h.Service.DailyLog(ctx, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := make([]PortalEmployeeDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, PortalEmployeeDTO{
			ID:      string(e.Employee.ID),
			Name:    e.Employee.Name,
			OnShift: e.Record != nil && e.Record.IsOpen(),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

// PortalToday returns the employee's record for today, or null.
func (h *Handler) PortalToday(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.activeEmployee(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.RecordFor(r.Context(), emp.ID, attendance.DateOf(h.Now()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func (h *Handler) ClockIn(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.activeEmployee(w, r)
	if !ok {
		return
	}

	res, err := h.Service.ClockIn(r.Context(), emp.ID, h.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, clockStatus(res), toClockResponse(res))
}

func (h *Handler) ClockOut(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.activeEmployee(w, r)
	if !ok {
		return
	}

	res, err := h.Service.ClockOut(r.Context(), emp.ID, h.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClockResponse(res))
}

// activeEmployee resolves {id}; deactivated employees cannot use the kiosk.
func (h *Handler) activeEmployee(w http.ResponseWriter, r *http.Request) (attendance.Employee, bool) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err == nil && !emp.Active {
		err = attendance.ErrEmployeeNotFound
	}
	if err != nil {
		writeServiceError(w, err)
		return attendance.Employee{}, false
	}
	return emp, true
}

func clockStatus(res attendance.ClockResult) int {
	if res.Applied {
		return http.StatusCreated
	}
	return http.StatusOK
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("all") == "true"

	employees, err := h.Service.ListEmployees(r.Context(), includeInactive)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTOs(employees))
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := attendance.NewEmployee{
		Name:       req.Name,
		Role:       attendance.Role(req.Role),
		HourlyRate: decimal.NewFromFloat(req.HourlyRate),
	}
	if in.Role == "" {
		in.Role = attendance.RoleEmployee
	}
	if req.StartDate != "" {
		start, err := attendance.ParseDate(req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate (use YYYY-MM-DD)", err)
			return
		}
		in.StartDate = start
	}

	emp, err := h.Service.AddEmployee(r.Context(), in, h.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))

	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	u := attendance.EmployeeUpdate{Name: req.Name, Active: req.IsActive}
	if req.Role != nil {
		role := attendance.Role(*req.Role)
		u.Role = &role
	}
	if req.HourlyRate != nil {
		rate := decimal.NewFromFloat(*req.HourlyRate)
		u.HourlyRate = &rate
	}
	if req.StartDate != nil {
		start, err := attendance.ParseDate(*req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate (use YYYY-MM-DD)", err)
			return
		}
		u.StartDate = &start
	}

	emp, err := h.Service.UpdateEmployee(r.Context(), id, u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// DeleteEmployee soft-deletes by default; ?hard=true removes the row.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := attendance.EmployeeID(chi.URLParam(r, "id"))

	hard, _ := strconv.ParseBool(r.URL.Query().Get("hard"))
	if hard {
		if err := h.Service.RemoveEmployee(ctx, id); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	emp, err := h.Service.DeactivateEmployee(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// =============================================================================
// TRANSACTION ENDPOINTS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := attendance.EmployeeID(chi.URLParam(r, "id"))

	if _, err := h.Service.GetEmployee(ctx, id); err != nil {
		writeServiceError(w, err)
		return
	}
	txs, err := h.Service.ListTransactions(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	id := attendance.EmployeeID(chi.URLParam(r, "id"))

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tx, err := h.Service.AddTransaction(r.Context(), attendance.NewTransaction{
		EmployeeID: id,
		Type:       attendance.TransactionType(req.Type),
		Amount:     decimal.NewFromFloat(req.Amount),
		Reason:     req.Reason,
	}, h.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// =============================================================================
// DASHBOARD ENDPOINTS
// =============================================================================

func (h *Handler) AttendanceLog(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Service.DailyLog(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLogDTOs(entries))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	day, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.DailyStats(r.Context(), day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayStatsDTO(stats))
}

// Payroll reports the cycle enclosing ?date= (default today).
func (h *Handler) Payroll(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	ref := now
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := attendance.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
		ref = day.In(now.Location())
	}

	report, err := h.Service.Payroll(r.Context(), ref)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(report))
}

// dateParam reads ?date=, defaulting to today.
func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (attendance.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return attendance.DateOf(h.Now()), true
	}
	day, err := attendance.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return attendance.Date{}, false
	}
	return day, true
}

// =============================================================================
// SETTINGS ENDPOINTS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.Settings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	u := attendance.SettingsUpdate{
		PayrollDay:    req.PayrollDay,
		OwnerPasscode: req.OwnerPasscode,
		ShiftDuration: req.ShiftDuration,
	}
	if req.Language != nil {
		lang := attendance.Language(*req.Language)
		u.Language = &lang
	}

	settings, err := h.Service.UpdateSettings(r.Context(), u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(settings))
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := document.Export(r.Context(), h.Service.Store())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="nizami-export.json"`)
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	doc, err := document.Decode(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document", err)
		return
	}
	if _, err := doc.Snapshot(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document", err)
		return
	}
	if err := document.Import(r.Context(), h.Service.Store(), doc); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps attendance errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *attendance.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error(), nil)
	case attendance.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		writeError(w, http.StatusNotFound, "Employee not found", nil)
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case attendance.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	case errors.Is(err, attendance.ErrInvalidPasscode):
		writeError(w, http.StatusUnauthorized, invalidPasscodeMessage, nil)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
