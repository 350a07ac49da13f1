/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON shapes of the leave API. Dates are ISO strings (2006-01-02), day
  counts are numbers with at most one decimal place (0.5 for half days).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG / CALENDAR
// =============================================================================

type LeaveTypeDTO struct {
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	Bucket               string `json:"bucket"`
	HalfDay              bool   `json:"half_day"`
	FixedDays            int    `json:"fixed_days,omitempty"`
	CountsNonWorkingDays bool   `json:"counts_non_working_days"`
	Eligible             string `json:"eligible,omitempty"`
}

type CalendarDayDTO struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Working bool   `json:"working"`
	Kind    string `json:"kind,omitempty"`
	Name    string `json:"name,omitempty"`
}

type CalendarMonthDTO struct {
	Year        int              `json:"year"`
	Month       int              `json:"month"`
	WorkingDays int              `json:"working_days"`
	Days        []CalendarDayDTO `json:"days"`
}

type HolidayDTO struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

type SeedHolidaysResponse struct {
	Year  int `json:"year"`
	Added int `json:"added"`
}

// =============================================================================
// EMPLOYEES / BALANCES
// =============================================================================

type EmployeeDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Gender   string `json:"gender"`
	JoinDate string `json:"join_date"`
}

type CreateEmployeeRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Gender   string `json:"gender"`
	JoinDate string `json:"join_date"`
}

type BucketBalanceDTO struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

type CasualBalanceDTO struct {
	BucketBalanceDTO
	YearEnd float64 `json:"year_end"`
}

type EarnedBalanceDTO struct {
	BucketBalanceDTO
	UsedFirstHalf  float64 `json:"used_first_half"`
	UsedSecondHalf float64 `json:"used_second_half"`
	Carryover      float64 `json:"carryover"`
}

type BalanceDTO struct {
	EmployeeID string           `json:"employee_id"`
	Year       int              `json:"year"`
	Casual     CasualBalanceDTO `json:"casual"`
	Earned     EarnedBalanceDTO `json:"earned"`
	Maternity  BucketBalanceDTO `json:"maternity"`
	Paternity  BucketBalanceDTO `json:"paternity"`
	WithoutPay BucketBalanceDTO `json:"lwp"`
}

type CarryoverRequest struct {
	Year    int     `json:"year"`
	Days    float64 `json:"days"`
	ActorID string  `json:"actor_id"`
}

// =============================================================================
// APPLICATIONS
// =============================================================================

type DraftRequest struct {
	Type      string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Reason    string `json:"reason"`
	HalfDay   bool   `json:"half_day,omitempty"`
}

type ApplicationDTO struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Type           string  `json:"leave_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date,omitempty"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	HalfDay        bool    `json:"half_day"`
	ChargeableDays float64 `json:"chargeable_days"`
	AppliedOn      string  `json:"applied_on,omitempty"`
	ApproverID     string  `json:"approver_id,omitempty"`
	DecidedOn      string  `json:"decided_on,omitempty"`
}

type ValidationResultDTO struct {
	Decision       string   `json:"decision"`
	Reason         string   `json:"reason,omitempty"`
	Message        string   `json:"message,omitempty"`
	Type           string   `json:"leave_type"`
	Bucket         string   `json:"bucket,omitempty"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date,omitempty"`
	ChargeableDays float64  `json:"chargeable_days"`
	HalfDay        bool     `json:"half_day"`
	Warnings       []string `json:"warnings,omitempty"`
	Conflicts      []string `json:"conflicts,omitempty"`
}

type SubmitResponse struct {
	Application *ApplicationDTO     `json:"application,omitempty"`
	Result      ValidationResultDTO `json:"result"`
}

// DecisionRequest carries who approves, rejects or cancels.
type DecisionRequest struct {
	ActorID string `json:"actor_id"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toLeaveTypeDTO(s leave.TypeSpec) LeaveTypeDTO {
	return LeaveTypeDTO{
		Code:                 string(s.Type),
		Name:                 s.Name,
		Bucket:               string(s.Bucket),
		HalfDay:              s.HalfDay,
		FixedDays:            s.FixedDays,
		CountsNonWorkingDays: s.CountsNonWorkingDays,
		Eligible:             string(s.Eligible),
	}
}

func toHolidayDTO(h leave.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Date: h.Date.String(), Name: h.Name, Kind: string(h.Kind)}
}

func toEmployeeDTO(e leave.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:       string(e.ID),
		Name:     e.Name,
		Email:    e.Email,
		Gender:   string(e.Gender),
		JoinDate: e.JoinDate.String(),
	}
}

func toBucketDTO(total, used decimal.Decimal) BucketBalanceDTO {
	return BucketBalanceDTO{
		Total:     total.InexactFloat64(),
		Used:      used.InexactFloat64(),
		Remaining: total.Sub(used).InexactFloat64(),
	}
}

func toBalanceDTO(e leave.Entry) BalanceDTO {
	earned := toBucketDTO(e.Earned.Total.Add(e.Earned.Carryover), e.Earned.Used())
	return BalanceDTO{
		EmployeeID: string(e.EmployeeID),
		Year:       e.Year,
		Casual: CasualBalanceDTO{
			BucketBalanceDTO: toBucketDTO(e.Casual.Total, e.Casual.Used),
			YearEnd:          e.Casual.YearEnd.InexactFloat64(),
		},
		Earned: EarnedBalanceDTO{
			BucketBalanceDTO: earned,
			UsedFirstHalf:    e.Earned.UsedFirstHalf.InexactFloat64(),
			UsedSecondHalf:   e.Earned.UsedSecondHalf.InexactFloat64(),
			Carryover:        e.Earned.Carryover.InexactFloat64(),
		},
		Maternity:  toBucketDTO(e.Maternity.Total, e.Maternity.Used),
		Paternity:  toBucketDTO(e.Paternity.Total, e.Paternity.Used),
		WithoutPay: toBucketDTO(e.WithoutPay.Total, e.WithoutPay.Used),
	}
}

func toApplicationDTO(a leave.Application) ApplicationDTO {
	return ApplicationDTO{
		ID:             a.ID,
		EmployeeID:     string(a.EmployeeID),
		Type:           string(a.Type),
		StartDate:      a.StartDate,
		EndDate:        a.EndDate,
		Reason:         a.Reason,
		Status:         string(a.Status),
		HalfDay:        a.HalfDay,
		ChargeableDays: a.ChargeableDays.InexactFloat64(),
		AppliedOn:      dateOrEmpty(a.AppliedOn),
		ApproverID:     a.ApproverID,
		DecidedOn:      dateOrEmpty(a.DecidedOn),
	}
}

func toValidationResultDTO(r leave.ValidationResult) ValidationResultDTO {
	return ValidationResultDTO{
		Decision:       string(r.Decision),
		Reason:         string(r.Reason),
		Message:        r.Message,
		Type:           string(r.Type),
		Bucket:         string(r.Bucket),
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		ChargeableDays: r.ChargeableDays.InexactFloat64(),
		HalfDay:        r.HalfDay,
		Warnings:       r.Warnings,
		Conflicts:      r.Conflicts,
	}
}

// toDraft keeps an unparseable leave type as-is so the validator reports
// UNKNOWN_LEAVE_TYPE.
func (r DraftRequest) toDraft() leave.Draft {
	t, err := leave.ParseLeaveType(r.Type)
	if err != nil {
		t = leave.LeaveType(r.Type)
	}
	return leave.Draft{
		Type:      t,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Reason:    r.Reason,
		HalfDay:   r.HalfDay,
	}
}

func dateOrEmpty(t generic.TimePoint) string {
	if t.IsZero() {
		return ""
	}
	return t.String()
}
