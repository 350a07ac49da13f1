package leave

// ReasonCode says why an application was rejected. Accepted results carry
// ReasonNone.
type ReasonCode string

const (
	ReasonNone                   ReasonCode = ""
	ReasonPastStartDate          ReasonCode = "PAST_START_DATE"
	ReasonMissingField           ReasonCode = "MISSING_FIELD"
	ReasonUnknownLeaveType       ReasonCode = "UNKNOWN_LEAVE_TYPE"
	ReasonEndBeforeStart         ReasonCode = "END_BEFORE_START"
	ReasonHalfDayOnNonWorkingDay ReasonCode = "HALF_DAY_ON_NON_WORKING_DAY"
	ReasonZeroChargeableDays     ReasonCode = "ZERO_CHARGEABLE_DAYS"
	ReasonOverlapping            ReasonCode = "OVERLAPPING_APPLICATION"
	ReasonInsufficientBalance    ReasonCode = "INSUFFICIENT_BALANCE"
	ReasonAdvanceLimitExceeded   ReasonCode = "ADVANCE_LIMIT_EXCEEDED"
	ReasonInvalidTiming          ReasonCode = "INVALID_TIMING"
)

var reasonMessages = map[ReasonCode]string{
	ReasonPastStartDate:          "Start date cannot be in the past.",
	ReasonMissingField:           "Required field missing.",
	ReasonUnknownLeaveType:       "Unknown leave type.",
	ReasonEndBeforeStart:         "End date cannot be before start date.",
	ReasonHalfDayOnNonWorkingDay: "Half-day leave cannot be applied on a non-working day.",
	ReasonZeroChargeableDays:     "The selected dates contain no chargeable days.",
	ReasonOverlapping:            "You already have a leave application for these dates.",
	ReasonInsufficientBalance:    "Insufficient leave balance.",
	ReasonAdvanceLimitExceeded:   "Advance leave exceeds the annual limit.",
	ReasonInvalidTiming:          "Leave cannot be applied for this period at this time.",
}

// Message is the default human-readable text for the code.
func (r ReasonCode) Message() string {
	return reasonMessages[r]
}

// AllReasons lists every rejection code, for metrics pre-registration.
func AllReasons() []ReasonCode {
	return []ReasonCode{
		ReasonPastStartDate, ReasonMissingField, ReasonUnknownLeaveType,
		ReasonEndBeforeStart, ReasonHalfDayOnNonWorkingDay, ReasonZeroChargeableDays,
		ReasonOverlapping, ReasonInsufficientBalance, ReasonAdvanceLimitExceeded,
		ReasonInvalidTiming,
	}
}
