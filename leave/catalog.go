/*
catalog.go - Leave type catalog

PURPOSE:
  One table describing every leave type: which bucket it charges, whether
  it is a half day, whether its length is fixed, and whether non-working
  days inside its range are charged.

TYPES:
  CL            Casual Leave        ranged, skips non-working days
  EL            Earned Leave        ranged, charges every calendar day
  ML            Maternity Leave     fixed 182 days
  PL            Paternity Leave     fixed 15 days
  LWP           Leave Without Pay   ranged, skips non-working days
  HALF_DAY_CL   Half-Day Casual     0.5 day, charges casual
  HALF_DAY_EL   Half-Day Earned     0.5 day, charges earned
  HALF_DAY_LWP  Half-Day LWP        0.5 day, charges lwp

ANNUAL CAPS:
  casual 12 (accrued monthly), earned 20 (10 per half year),
  maternity 182, paternity 15, lwp 300

SEE ALSO:
  - duration.go: Prices a range using the catalog
  - balance.go: Bucket totals seeded from these caps
*/
package leave

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ANNUAL CAPS
// =============================================================================

var (
	CasualAnnualCap   = decimal.NewFromInt(12)
	EarnedAnnualCap   = decimal.NewFromInt(20)
	EarnedHalfYearCap = decimal.NewFromInt(10)
	MaternityDays     = decimal.NewFromInt(182)
	PaternityDays     = decimal.NewFromInt(15)
	WithoutPayLimit   = decimal.NewFromInt(300)

	halfDay = decimal.New(5, -1)
)

// MaxApplicationSpanDays bounds the calendar length of a ranged request.
// It comfortably fits the 300 day unpaid limit.
const MaxApplicationSpanDays = 731

// =============================================================================
// TYPE SPEC
// =============================================================================

// TypeSpec is the catalog row for one leave type.
type TypeSpec struct {
	Type   LeaveType
	Name   string
	Bucket Bucket

	// HalfDay types always cover exactly their start date.
	HalfDay bool

	// FixedDays > 0 means the end date is derived: start + FixedDays - 1.
	FixedDays int

	// CountsNonWorkingDays charges Sundays, 2nd/4th Saturdays and holidays
	// that fall inside the range.
	CountsNonWorkingDays bool

	// Eligible restricts the type to one gender. Empty means everyone.
	Eligible Gender
}

// Ranged reports whether the type needs an explicit end date.
func (s TypeSpec) Ranged() bool {
	return !s.HalfDay && s.FixedDays == 0
}

// =============================================================================
// CATALOG
// =============================================================================

type Catalog struct {
	specs map[LeaveType]TypeSpec
	order []LeaveType
}

// NewCatalog builds a catalog from rows, keeping their order for listings.
func NewCatalog(specs ...TypeSpec) *Catalog {
	c := &Catalog{specs: make(map[LeaveType]TypeSpec, len(specs))}
	for _, s := range specs {
		if _, dup := c.specs[s.Type]; !dup {
			c.order = append(c.order, s.Type)
		}
		c.specs[s.Type] = s
	}
	return c
}

// DefaultCatalog returns the standard eight leave types.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		TypeSpec{Type: TypeCasual, Name: "Casual Leave", Bucket: BucketCasual},
		TypeSpec{Type: TypeEarned, Name: "Earned Leave", Bucket: BucketEarned, CountsNonWorkingDays: true},
		TypeSpec{Type: TypeMaternity, Name: "Maternity Leave", Bucket: BucketMaternity,
			FixedDays: int(MaternityDays.IntPart()), CountsNonWorkingDays: true, Eligible: GenderFemale},
		TypeSpec{Type: TypePaternity, Name: "Paternity Leave", Bucket: BucketPaternity,
			FixedDays: int(PaternityDays.IntPart()), CountsNonWorkingDays: true, Eligible: GenderMale},
		TypeSpec{Type: TypeWithoutPay, Name: "Leave Without Pay", Bucket: BucketWithoutPay},
		TypeSpec{Type: TypeHalfDayCasual, Name: "Half-Day Casual Leave", Bucket: BucketCasual, HalfDay: true},
		TypeSpec{Type: TypeHalfDayEarned, Name: "Half-Day Earned Leave", Bucket: BucketEarned, HalfDay: true},
		TypeSpec{Type: TypeHalfDayWithoutPay, Name: "Half-Day Leave Without Pay", Bucket: BucketWithoutPay, HalfDay: true},
	)
}

var standardCatalog = DefaultCatalog()

// Lookup returns the row for t.
func (c *Catalog) Lookup(t LeaveType) (TypeSpec, bool) {
	s, ok := c.specs[t]
	return s, ok
}

// Types lists every row in catalog order.
func (c *Catalog) Types() []TypeSpec {
	out := make([]TypeSpec, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.specs[t])
	}
	return out
}

// AvailableFor lists the types an employee of gender g may be offered.
// The validator itself does not enforce eligibility.
func (c *Catalog) AvailableFor(g Gender) []TypeSpec {
	var out []TypeSpec
	for _, s := range c.Types() {
		if s.Eligible == "" || s.Eligible == g {
			out = append(out, s)
		}
	}
	return out
}

// HalfDayVariant maps a full-day type to the half-day type charging the
// same bucket (CL -> HALF_DAY_CL). Half-day types map to themselves.
func (c *Catalog) HalfDayVariant(t LeaveType) (LeaveType, bool) {
	spec, ok := c.Lookup(t)
	if !ok {
		return "", false
	}
	if spec.HalfDay {
		return t, true
	}
	for _, s := range c.Types() {
		if s.HalfDay && s.Bucket == spec.Bucket {
			return s.Type, true
		}
	}
	return "", false
}

// =============================================================================
// PARSING
// =============================================================================

var legacyTypeNames = map[string]LeaveType{
	"casualleave":     TypeCasual,
	"earnedleave":     TypeEarned,
	"maternityleave":  TypeMaternity,
	"paternityleave":  TypePaternity,
	"leavewithoutpay": TypeWithoutPay,
}

// ParseLeaveType accepts canonical codes in any case ("cl", "Half_Day_EL")
// and the camel-case names older clients send ("casualLeave").
func ParseLeaveType(s string) (LeaveType, error) {
	trimmed := strings.TrimSpace(s)
	code := LeaveType(strings.ToUpper(strings.ReplaceAll(trimmed, "-", "_")))
	if _, ok := standardCatalog.Lookup(code); ok {
		return code, nil
	}
	if t, ok := legacyTypeNames[strings.ToLower(trimmed)]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLeaveType, s)
}
