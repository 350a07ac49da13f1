// Package leave implements leave entitlement and validation on top of the
// generic engine: working-day calendar, leave type catalog, chargeable-day
// pricing, per-year balance ledger, overlap detection and the application
// validator.
package leave

import (
	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE TYPE
// =============================================================================

// LeaveType is the wire code of a kind of leave.
type LeaveType string

const (
	TypeCasual            LeaveType = "CL"
	TypeEarned            LeaveType = "EL"
	TypeMaternity         LeaveType = "ML"
	TypePaternity         LeaveType = "PL"
	TypeWithoutPay        LeaveType = "LWP"
	TypeHalfDayCasual     LeaveType = "HALF_DAY_CL"
	TypeHalfDayEarned     LeaveType = "HALF_DAY_EL"
	TypeHalfDayWithoutPay LeaveType = "HALF_DAY_LWP"
)

// =============================================================================
// BUCKET - Balance counter a leave type draws from
// =============================================================================

// Bucket is the balance counter charged by a leave type.
// Implements generic.ResourceType.
type Bucket string

func (b Bucket) ResourceID() string     { return string(b) }
func (b Bucket) ResourceDomain() string { return "leave" }

// PolicyID keys the bucket's transactions in the ledger.
func (b Bucket) PolicyID() generic.PolicyID { return generic.PolicyID(b) }

var _ generic.ResourceType = Bucket("")

const (
	BucketCasual     Bucket = "casual"
	BucketEarned     Bucket = "earned"
	BucketMaternity  Bucket = "maternity"
	BucketPaternity  Bucket = "paternity"
	BucketWithoutPay Bucket = "lwp"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketCasual, BucketEarned, BucketMaternity, BucketPaternity, BucketWithoutPay}

// =============================================================================
// APPLICATION STATUS
// =============================================================================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Live reports whether an application in this status still occupies its
// dates. Only rejected and cancelled applications release them.
func (s Status) Live() bool {
	return s != StatusRejected && s != StatusCancelled
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Employee struct {
	ID       generic.EntityID
	Name     string
	Email    string
	Gender   Gender
	JoinDate generic.TimePoint
}

// =============================================================================
// APPLICATION
// =============================================================================

// Application is a leave application as persisted. Dates are kept as the
// stored ISO strings; EndDate may be empty and either may be malformed in
// legacy rows, which the engine tolerates.
type Application struct {
	ID             string
	EmployeeID     generic.EntityID
	Type           LeaveType
	StartDate      string
	EndDate        string
	Reason         string
	Status         Status
	HalfDay        bool
	ChargeableDays decimal.Decimal
	AppliedOn      generic.TimePoint
	ApproverID     string
	DecidedOn      generic.TimePoint
}

// Draft is a proposed application as entered by the employee.
type Draft struct {
	Type      LeaveType
	StartDate string
	EndDate   string
	Reason    string
	HalfDay   bool
}
