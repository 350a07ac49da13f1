/*
balance.go - Availability math for a single resource in a period

PURPOSE:
  Answers "how much of this can still be requested?" once the domain has
  worked out what is accrued, what the full entitlement is, and what is
  already committed.

BALANCE COMPONENTS:
  AccruedToDate:    What has actually been earned so far
  TotalEntitlement: Full period entitlement (includes future accruals)
  TotalConsumed:    Approved consumption (debited in the ledger)
  Pending:          Submitted but not yet approved
  Adjustments:      Grants and manual corrections

AVAILABILITY CALCULATION:
  If ConsumptionMode == ConsumeAhead:
    Available = TotalEntitlement - TotalConsumed - Pending + Adjustments

  If ConsumptionMode == ConsumeUpToAccrued:
    Available = AccruedToDate - TotalConsumed - Pending + Adjustments

EXAMPLE:
  Casual leave, joined in a prior year, it's May, 2 days used:

  ConsumeAhead (booking for October):  Available = 12 - 2 = 10 days
  ConsumeUpToAccrued (booking for May): Available = 5 - 2  = 3 days

SEE ALSO:
  - accrual.go: AccrualSchedule producing the accrued amounts
  - leave/rules.go: Chooses the mode per application
*/
package generic

// =============================================================================
// CONSUMPTION MODE
// =============================================================================

// ConsumptionMode selects which ceiling a request is measured against.
type ConsumptionMode string

const (
	// ConsumeAhead allows using the whole period entitlement up front.
	ConsumeAhead ConsumptionMode = "consume_ahead"
	// ConsumeUpToAccrued caps usage at what has accrued so far.
	ConsumeUpToAccrued ConsumptionMode = "consume_up_to_accrued"
)

// =============================================================================
// BALANCE - Computed for a PERIOD, not at a point in time
// =============================================================================

type Balance struct {
	EntityID EntityID
	PolicyID PolicyID
	Period   Period

	AccruedToDate    Amount
	TotalEntitlement Amount
	TotalConsumed    Amount
	Pending          Amount
	Adjustments      Amount
}

// Current returns entitlement - consumed + adjustments.
func (b Balance) Current() Amount {
	return b.TotalEntitlement.Sub(b.TotalConsumed).Add(b.Adjustments)
}

// CurrentAccrued returns accrued - consumed + adjustments.
func (b Balance) CurrentAccrued() Amount {
	return b.AccruedToDate.Sub(b.TotalConsumed).Add(b.Adjustments)
}

// Committed is what is already spoken for: consumed plus pending.
func (b Balance) Committed() Amount {
	return b.TotalConsumed.Add(b.Pending)
}

// AvailableWithMode returns what can be requested based on consumption mode
func (b Balance) AvailableWithMode(mode ConsumptionMode) Amount {
	switch mode {
	case ConsumeUpToAccrued:
		return b.CurrentAccrued().Sub(b.Pending)
	default: // ConsumeAhead or unset
		return b.Current().Sub(b.Pending)
	}
}

// CanConsumeWithMode checks consumption with specific mode
func (b Balance) CanConsumeWithMode(amount Amount, mode ConsumptionMode) bool {
	return !b.AvailableWithMode(mode).Sub(amount).IsNegative()
}

// Shortfall returns how far amount exceeds the available figure (zero if it fits).
func (b Balance) Shortfall(amount Amount, mode ConsumptionMode) Amount {
	over := amount.Sub(b.AvailableWithMode(mode))
	if over.IsPositive() {
		return over
	}
	return amount.Zero()
}

// =============================================================================
// ACCRUAL ROLL-UP
// =============================================================================

// SumAccruals totals the events a schedule produces in [from, to].
func SumAccruals(s AccrualSchedule, from, to TimePoint, unit Unit) Amount {
	total := NewAmount(0, unit)
	if s == nil {
		return total
	}
	for _, e := range s.GenerateAccruals(from, to) {
		total = total.Add(e.Amount)
	}
	return total
}
