package main

import (
	"fmt"
	"os"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// holidayYAML is one holiday row in a YAML file.
type holidayYAML struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type holidayFile struct {
	Holidays []holidayYAML `yaml:"holidays"`
}

func (h holidayYAML) toHoliday(i int) (leave.Holiday, error) {
	date, err := generic.ParseDate(h.Date)
	if err != nil {
		return leave.Holiday{}, fmt.Errorf("holiday %d: %w", i+1, err)
	}
	kind, err := leave.ParseHolidayKind(h.Kind)
	if err != nil {
		return leave.Holiday{}, fmt.Errorf("holiday %d: %w", i+1, err)
	}
	return leave.Holiday{ID: fmt.Sprintf("h%d", i+1), Date: date, Name: h.Name, Kind: kind}, nil
}

func toHolidays(rows []holidayYAML) ([]leave.Holiday, error) {
	out := make([]leave.Holiday, 0, len(rows))
	for i, row := range rows {
		h, err := row.toHoliday(i)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// loadCalendar reads a holidays file; an empty path gives a calendar with
// only the weekly offs.
func loadCalendar(path string) (*leave.Calendar, error) {
	if path == "" {
		return leave.NewCalendar(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f holidayFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	holidays, err := toHolidays(f.Holidays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return leave.NewCalendar(holidays), nil
}

// =============================================================================
// SCENARIO
// =============================================================================

// scenario is the check command's input: who applies, what they already
// have, and the draft.
type scenario struct {
	Today   string `yaml:"today"`
	Options struct {
		LWPWarnOnly        bool `yaml:"lwp_warn_only"`
		CasualBackdateDays int  `yaml:"casual_backdate_days"`
	} `yaml:"options"`
	Employee struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Gender   string `yaml:"gender"`
		JoinDate string `yaml:"join_date"`
	} `yaml:"employee"`
	Holidays []holidayYAML `yaml:"holidays"`

	// Balance is the debited usage of the current year.
	Balance struct {
		CasualUsed           float64 `yaml:"casual_used"`
		EarnedUsedFirstHalf  float64 `yaml:"earned_used_first_half"`
		EarnedUsedSecondHalf float64 `yaml:"earned_used_second_half"`
		EarnedCarryover      float64 `yaml:"earned_carryover"`
		MaternityUsed        float64 `yaml:"maternity_used"`
		PaternityUsed        float64 `yaml:"paternity_used"`
		WithoutPayUsed       float64 `yaml:"lwp_used"`
	} `yaml:"balance"`

	Applications []struct {
		ID             string  `yaml:"id"`
		Type           string  `yaml:"leave_type"`
		StartDate      string  `yaml:"start_date"`
		EndDate        string  `yaml:"end_date"`
		Status         string  `yaml:"status"`
		ChargeableDays float64 `yaml:"chargeable_days"`
	} `yaml:"applications"`

	Draft struct {
		Type      string `yaml:"leave_type"`
		StartDate string `yaml:"start_date"`
		EndDate   string `yaml:"end_date"`
		Reason    string `yaml:"reason"`
		HalfDay   bool   `yaml:"half_day"`
	} `yaml:"draft"`
}

func loadScenario(path string) (scenario, error) {
	var sc scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return sc, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

// evaluate builds the employee context and validates the draft as of today.
func (sc scenario) evaluate(today generic.TimePoint) (leave.ValidationResult, error) {
	join, err := generic.ParseDate(sc.Employee.JoinDate)
	if err != nil {
		return leave.ValidationResult{}, fmt.Errorf("employee join_date: %w", err)
	}
	emp := leave.Employee{
		ID:       generic.EntityID(sc.Employee.ID),
		Name:     sc.Employee.Name,
		Gender:   leave.Gender(sc.Employee.Gender),
		JoinDate: join,
	}

	holidays, err := toHolidays(sc.Holidays)
	if err != nil {
		return leave.ValidationResult{}, err
	}

	entry := leave.NewEntry(emp.ID, today.Year(), join, today)
	b := sc.Balance
	entry.Casual.Used = decimal.NewFromFloat(b.CasualUsed)
	entry.Earned.UsedFirstHalf = decimal.NewFromFloat(b.EarnedUsedFirstHalf)
	entry.Earned.UsedSecondHalf = decimal.NewFromFloat(b.EarnedUsedSecondHalf)
	entry.Earned.Carryover = decimal.NewFromFloat(b.EarnedCarryover)
	entry.Maternity.Used = decimal.NewFromFloat(b.MaternityUsed)
	entry.Paternity.Used = decimal.NewFromFloat(b.PaternityUsed)
	entry.WithoutPay.Used = decimal.NewFromFloat(b.WithoutPayUsed)
	if err := entry.Validate(); err != nil {
		return leave.ValidationResult{}, fmt.Errorf("balance: %w", err)
	}

	var apps []leave.Application
	for i, a := range sc.Applications {
		t, err := leave.ParseLeaveType(a.Type)
		if err != nil {
			return leave.ValidationResult{}, fmt.Errorf("application %d: %w", i+1, err)
		}
		status := leave.Status(a.Status)
		if status == "" {
			status = leave.StatusPending
		}
		apps = append(apps, leave.Application{
			ID:             a.ID,
			EmployeeID:     emp.ID,
			Type:           t,
			StartDate:      a.StartDate,
			EndDate:        a.EndDate,
			Status:         status,
			ChargeableDays: decimal.NewFromFloat(a.ChargeableDays),
		})
	}

	draftType, err := leave.ParseLeaveType(sc.Draft.Type)
	if err != nil {
		draftType = leave.LeaveType(sc.Draft.Type)
	}

	v := leave.NewValidator(leave.DefaultCatalog(), leave.NewCalendar(holidays), leave.Options{
		CasualBackdateDays: sc.Options.CasualBackdateDays,
		LWPWarnOnly:        sc.Options.LWPWarnOnly,
	})
	v.Now = func() generic.TimePoint { return today }

	return v.Validate(
		leave.EmployeeContext{Employee: emp, Balance: entry, Applications: apps},
		leave.Draft{
			Type:      draftType,
			StartDate: sc.Draft.StartDate,
			EndDate:   sc.Draft.EndDate,
			Reason:    sc.Draft.Reason,
			HalfDay:   sc.Draft.HalfDay,
		},
	), nil
}
