/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes leave.Service over REST. Handles HTTP request/response and JSON
  serialization and delegates everything else to the service.

ENDPOINTS:
  Catalog / calendar:
    GET    /api/leave-types?gender=            Types available to a gender
    GET    /api/calendar/{year}/{month}        Working and non-working days

  Holidays:
    GET    /api/holidays?year=                 List
    POST   /api/holidays                       Add a CUSTOM (or given kind) holiday
    POST   /api/holidays/seed?year=            Store Sundays and 2nd/4th Saturdays
    DELETE /api/holidays/{id}                  Remove

  Employees:
    GET    /api/employees                      List
    POST   /api/employees                      Register
    GET    /api/employees/{id}                 Details
    GET    /api/employees/{id}/balance?year=   Ledger entry
    POST   /api/employees/{id}/carryover       Earned leave carried into a year

  Applications:
    GET    /api/employees/{id}/applications           List
    POST   /api/employees/{id}/applications/validate  Dry run
    POST   /api/employees/{id}/applications           Submit (201, or 422 with result)
    POST   /api/applications/{id}/approve|reject|cancel

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed body or parameters
  - 404: Employee, application or holiday not found
  - 409: Wrong status, cancellation window closed, duplicate, balance gone
  - 422: Draft rejected by the validator (body is the result)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

type Handler struct {
	Service *leave.Service
	Logger  *slog.Logger
}

func NewHandler(svc *leave.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Logger: logger}
}

// =============================================================================
// CATALOG / CALENDAR
// =============================================================================

// ListLeaveTypes returns the catalog, filtered by ?gender= when given.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	catalog := h.Service.Catalog
	specs := catalog.Types()
	if g := r.URL.Query().Get("gender"); g != "" {
		specs = catalog.AvailableFor(leave.Gender(strings.ToUpper(g)))
	}

	out := make([]LeaveTypeDTO, 0, len(specs))
	for _, s := range specs {
		out = append(out, toLeaveTypeDTO(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCalendarMonth lists every day of a month with its working status.
func (h *Handler) GetCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month", err)
		return
	}

	period := generic.Period{
		Start: generic.StartOfMonth(year, time.Month(month)),
		End:   generic.EndOfMonth(year, time.Month(month)),
	}
	cal, err := h.Service.Calendar(r.Context(), period)
	if err != nil {
		h.internalError(w, "failed to load calendar", err)
		return
	}

	closed := make(map[string]leave.NonWorkingDay)
	for _, nw := range cal.NonWorkingDays(period) {
		closed[nw.Date.String()] = nw
	}

	resp := CalendarMonthDTO{Year: year, Month: month, WorkingDays: cal.WorkingDays(period)}
	for _, d := range period.Days() {
		day := CalendarDayDTO{Date: d.String(), Weekday: d.Weekday().String(), Working: true}
		if nw, ok := closed[d.String()]; ok {
			day.Working = false
			day.Kind = string(nw.Kind)
			day.Name = nw.Name
		}
		resp.Days = append(resp.Days, day)
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	holidays, err := h.Service.Holidays(r.Context(), year)
	if err != nil {
		h.internalError(w, "failed to list holidays", err)
		return
	}
	out := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		out = append(out, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	kind, err := leave.ParseHolidayKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid kind", err)
		return
	}

	hol, err := h.Service.AddHoliday(r.Context(), leave.Holiday{Date: date, Name: req.Name, Kind: kind})
	if err != nil {
		h.internalError(w, "failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

func (h *Handler) SeedHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	added, err := h.Service.SeedWeeklyOffs(r.Context(), year)
	if err != nil {
		h.internalError(w, "failed to seed holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, SeedHolidaysResponse{Year: year, Added: added})
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.Repo.Employees(r.Context())
	if err != nil {
		h.internalError(w, "failed to list employees", err)
		return
	}
	out := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeDTO(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	joinDate, err := generic.ParseDate(req.JoinDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid join_date", err)
		return
	}
	gender := leave.Gender(strings.ToUpper(strings.TrimSpace(req.Gender)))
	switch gender {
	case leave.GenderMale, leave.GenderFemale, leave.GenderOther:
	default:
		writeError(w, http.StatusBadRequest, "gender must be MALE, FEMALE or OTHER", nil)
		return
	}

	emp, err := h.Service.RegisterEmployee(r.Context(), leave.Employee{
		ID:       generic.EntityID(req.ID),
		Name:     req.Name,
		Email:    req.Email,
		Gender:   gender,
		JoinDate: joinDate,
	})
	if err != nil {
		h.internalError(w, "failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Repo.Employee(r.Context(), generic.EntityID(chi.URLParam(r, "id")))
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// GetBalance returns the replayed ledger entry for ?year= (default: this year).
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	year, err := yearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year", err)
		return
	}
	entry, err := h.Service.Balance(r.Context(), generic.EntityID(chi.URLParam(r, "id")), year)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(entry))
}

func (h *Handler) SetCarryover(w http.ResponseWriter, r *http.Request) {
	var req CarryoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Year == 0 {
		writeError(w, http.StatusBadRequest, "year is required", nil)
		return
	}

	employeeID := generic.EntityID(chi.URLParam(r, "id"))
	err := h.Service.SetCarryover(r.Context(), employeeID, req.Year, decimal.NewFromFloat(req.Days), req.ActorID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	entry, err := h.Service.Balance(r.Context(), employeeID, req.Year)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceDTO(entry))
}

// =============================================================================
// APPLICATIONS
// =============================================================================

func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	employeeID := generic.EntityID(chi.URLParam(r, "id"))
	if _, err := h.Service.Repo.Employee(r.Context(), employeeID); err != nil {
		h.serviceError(w, err)
		return
	}
	apps, err := h.Service.Repo.Applications(r.Context(), employeeID)
	if err != nil {
		h.internalError(w, "failed to list applications", err)
		return
	}
	out := make([]ApplicationDTO, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// ValidateApplication is a dry run: always 200 with the result.
func (h *Handler) ValidateApplication(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	res, err := h.Service.Validate(r.Context(), generic.EntityID(chi.URLParam(r, "id")), req.toDraft())
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toValidationResultDTO(res))
}

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	app, res, err := h.Service.Submit(r.Context(), generic.EntityID(chi.URLParam(r, "id")), req.toDraft())
	var rejected *leave.RejectedError
	switch {
	case errors.As(err, &rejected):
		writeJSON(w, http.StatusUnprocessableEntity, SubmitResponse{Result: toValidationResultDTO(rejected.Result)})
	case err != nil:
		h.serviceError(w, err)
	default:
		dto := toApplicationDTO(app)
		writeJSON(w, http.StatusCreated, SubmitResponse{Application: &dto, Result: toValidationResultDTO(res)})
	}
}

func (h *Handler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve)
}

func (h *Handler) RejectApplication(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject)
}

func (h *Handler) CancelApplication(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Cancel)
}

// decide runs a lifecycle call with the actor from the optional body.
func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, actorID string) (leave.Application, error)) {
	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	app, err := fn(r.Context(), chi.URLParam(r, "id"), req.ActorID)
	if err != nil {
		h.serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationDTO(app))
}

// =============================================================================
// HELPERS
// =============================================================================

func yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("year %q out of range", raw)
	}
	return year, nil
}

// serviceError maps service errors onto HTTP statuses.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, leave.ErrInvalidTransition),
		errors.Is(err, leave.ErrCancellationWindowClosed),
		errors.Is(err, generic.ErrDuplicateIdempotencyKey),
		errors.Is(err, generic.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "conflict", err)
	case generic.IsClientError(err),
		errors.Is(err, leave.ErrYearMismatch):
		writeError(w, http.StatusBadRequest, "invalid request", err)
	default:
		h.internalError(w, "internal error", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, message string, err error) {
	h.Logger.Error(message, "err", err)
	writeError(w, http.StatusInternalServerError, message, err)
}

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
