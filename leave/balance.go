/*
balance.go - Per-employee, per-year balance ledger entry

PURPOSE:
  Holds the counters every balance rule reads: one simple bucket per
  leave family plus the half-year aware earned bucket.

BUCKETS:
  Casual     {Total = accrued-to-date, Used, YearEnd = year-end entitlement}
  Earned     {Total = 20, UsedFirstHalf, UsedSecondHalf, Carryover}
  Maternity  {Total = 182, Used}
  Paternity  {Total = 15, Used}
  WithoutPay {Total = 300, Used}

INVARIANTS:
  - Used counters never go negative
  - Earned: UsedFirstHalf + UsedSecondHalf <= Total + Carryover
  - Debit and Credit are the only mutations

LEDGER REPLAY:
  Used counters are not stored. Approvals append TxConsumption and
  cancellations TxReversal to the generic ledger under the bucket's policy
  id, effective on the application's start date. Replay folds those onto a
  fresh entry; a TxGrant on the earned policy is the year's carryover.

SEE ALSO:
  - rules.go: Balance checks reading these counters
  - service.go: Appends the transactions
*/
package leave

import (
	"fmt"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BUCKETS
// =============================================================================

type SimpleBucket struct {
	Total decimal.Decimal
	Used  decimal.Decimal
}

func (b SimpleBucket) Remaining() decimal.Decimal { return b.Total.Sub(b.Used) }

// CasualBucket tracks accrued-to-date as Total and keeps the year-end
// entitlement alongside, since advance bookings may exceed what has
// accrued so far.
type CasualBucket struct {
	Total   decimal.Decimal
	Used    decimal.Decimal
	YearEnd decimal.Decimal
}

func (b CasualBucket) Remaining() decimal.Decimal { return b.Total.Sub(b.Used) }

type EarnedBucket struct {
	Total          decimal.Decimal
	UsedFirstHalf  decimal.Decimal
	UsedSecondHalf decimal.Decimal
	Carryover      decimal.Decimal
}

func (b EarnedBucket) Used() decimal.Decimal {
	return b.UsedFirstHalf.Add(b.UsedSecondHalf)
}

func (b EarnedBucket) Remaining() decimal.Decimal { return b.Total.Sub(b.Used()) }

// UsedIn returns the usage attributed to half h.
func (b EarnedBucket) UsedIn(h generic.Half) decimal.Decimal {
	if h == generic.FirstHalf {
		return b.UsedFirstHalf
	}
	return b.UsedSecondHalf
}

// =============================================================================
// ENTRY
// =============================================================================

type Entry struct {
	EmployeeID generic.EntityID
	Year       int

	Casual     CasualBucket
	Earned     EarnedBucket
	Maternity  SimpleBucket
	Paternity  SimpleBucket
	WithoutPay SimpleBucket
}

// NewEntry returns an unused entry for year with casual accrual evaluated
// as of asOf (clamped into the year).
func NewEntry(employeeID generic.EntityID, year int, join, asOf generic.TimePoint) Entry {
	accrued := decimal.Zero
	switch {
	case asOf.Year() == year:
		accrued = AccruedCasualLeave(join, asOf)
	case asOf.Year() > year:
		accrued = CasualEntitlement(join, year)
	}

	return Entry{
		EmployeeID: employeeID,
		Year:       year,
		Casual:     CasualBucket{Total: accrued, YearEnd: CasualEntitlement(join, year)},
		Earned:     EarnedBucket{Total: EarnedAnnualCap},
		Maternity:  SimpleBucket{Total: MaternityDays},
		Paternity:  SimpleBucket{Total: PaternityDays},
		WithoutPay: SimpleBucket{Total: WithoutPayLimit},
	}
}

// Remaining returns what is left in bucket b.
func (e Entry) Remaining(b Bucket) decimal.Decimal {
	switch b {
	case BucketCasual:
		return e.Casual.Remaining()
	case BucketEarned:
		return e.Earned.Remaining()
	case BucketMaternity:
		return e.Maternity.Remaining()
	case BucketPaternity:
		return e.Paternity.Remaining()
	case BucketWithoutPay:
		return e.WithoutPay.Remaining()
	}
	return decimal.Zero
}

// Used returns the debited usage of bucket b.
func (e Entry) Used(b Bucket) decimal.Decimal {
	switch b {
	case BucketCasual:
		return e.Casual.Used
	case BucketEarned:
		return e.Earned.Used()
	case BucketMaternity:
		return e.Maternity.Used
	case BucketPaternity:
		return e.Paternity.Used
	case BucketWithoutPay:
		return e.WithoutPay.Used
	}
	return decimal.Zero
}

// ceiling is the most that may be debited from b over the year.
func (e Entry) ceiling(b Bucket) decimal.Decimal {
	switch b {
	case BucketCasual:
		return e.Casual.YearEnd
	case BucketEarned:
		return e.Earned.Total.Add(e.Earned.Carryover)
	case BucketMaternity:
		return e.Maternity.Total
	case BucketPaternity:
		return e.Paternity.Total
	case BucketWithoutPay:
		return e.WithoutPay.Total
	}
	return decimal.Zero
}

// Debit charges days to bucket b. on selects the earned half and must fall
// in the entry's year.
func (e *Entry) Debit(b Bucket, days decimal.Decimal, on generic.TimePoint) error {
	if !days.IsPositive() {
		return fmt.Errorf("debit %s %s: %w", days, b, generic.ErrInvalidAmount)
	}
	if on.Year() != e.Year {
		return fmt.Errorf("debit on %s for %d: %w", on, e.Year, ErrYearMismatch)
	}
	if e.Used(b).Add(days).GreaterThan(e.ceiling(b)) {
		return &generic.InsufficientBalanceError{
			EntityID:  e.EmployeeID,
			PolicyID:  b.PolicyID(),
			Available: generic.Days(e.ceiling(b).Sub(e.Used(b))),
			Requested: generic.Days(days),
		}
	}
	return e.apply(b, days, on)
}

// Credit returns days to bucket b, undoing an earlier debit on the same date.
func (e *Entry) Credit(b Bucket, days decimal.Decimal, on generic.TimePoint) error {
	if !days.IsPositive() {
		return fmt.Errorf("credit %s %s: %w", days, b, generic.ErrInvalidAmount)
	}
	if on.Year() != e.Year {
		return fmt.Errorf("credit on %s for %d: %w", on, e.Year, ErrYearMismatch)
	}
	used := e.Used(b)
	if b == BucketEarned {
		used = e.Earned.UsedIn(generic.HalfOf(on))
	}
	if days.GreaterThan(used) {
		return fmt.Errorf("credit %s exceeds used %s in %s: %w", days, used, b, generic.ErrInvalidAmount)
	}
	return e.apply(b, days.Neg(), on)
}

// apply moves the used counter of b by delta without checks.
func (e *Entry) apply(b Bucket, delta decimal.Decimal, on generic.TimePoint) error {
	switch b {
	case BucketCasual:
		e.Casual.Used = e.Casual.Used.Add(delta)
	case BucketEarned:
		if generic.HalfOf(on) == generic.FirstHalf {
			e.Earned.UsedFirstHalf = e.Earned.UsedFirstHalf.Add(delta)
		} else {
			e.Earned.UsedSecondHalf = e.Earned.UsedSecondHalf.Add(delta)
		}
	case BucketMaternity:
		e.Maternity.Used = e.Maternity.Used.Add(delta)
	case BucketPaternity:
		e.Paternity.Used = e.Paternity.Used.Add(delta)
	case BucketWithoutPay:
		e.WithoutPay.Used = e.WithoutPay.Used.Add(delta)
	default:
		return fmt.Errorf("bucket %q: %w", b, ErrUnknownLeaveType)
	}
	return nil
}

// Validate checks the entry invariants.
func (e Entry) Validate() error {
	for _, b := range Buckets {
		if e.Used(b).IsNegative() {
			return fmt.Errorf("%s used is negative: %w", b, generic.ErrInvalidAmount)
		}
	}
	if e.Earned.UsedFirstHalf.IsNegative() || e.Earned.UsedSecondHalf.IsNegative() {
		return fmt.Errorf("earned half usage is negative: %w", generic.ErrInvalidAmount)
	}
	if e.Earned.Used().GreaterThan(e.Earned.Total.Add(e.Earned.Carryover)) {
		return fmt.Errorf("earned used %s exceeds total plus carryover: %w", e.Earned.Used(), generic.ErrInsufficientBalance)
	}
	return nil
}

// =============================================================================
// LEDGER REPLAY
// =============================================================================

// Replay folds ledger transactions onto base. Transactions outside the
// entry's year or for unknown policies are ignored.
func Replay(base Entry, txs []generic.Transaction) Entry {
	e := base
	for _, tx := range txs {
		if tx.EffectiveAt.Year() != e.Year {
			continue
		}
		b := Bucket(tx.PolicyID)
		switch tx.Type {
		case generic.TxConsumption, generic.TxReversal:
			// consumption deltas are negative, reversals positive
			_ = e.apply(b, tx.Delta.Value.Neg(), tx.EffectiveAt)
		case generic.TxGrant:
			e.grant(b, tx.Delta.Value)
		}
	}
	return e
}

func (e *Entry) grant(b Bucket, days decimal.Decimal) {
	switch b {
	case BucketEarned:
		e.Earned.Carryover = e.Earned.Carryover.Add(days)
	case BucketCasual:
		e.Casual.Total = e.Casual.Total.Add(days)
		e.Casual.YearEnd = e.Casual.YearEnd.Add(days)
	case BucketMaternity:
		e.Maternity.Total = e.Maternity.Total.Add(days)
	case BucketPaternity:
		e.Paternity.Total = e.Paternity.Total.Add(days)
	case BucketWithoutPay:
		e.WithoutPay.Total = e.WithoutPay.Total.Add(days)
	}
}

// =============================================================================
// TRANSACTION BUILDERS
// =============================================================================

// ConsumptionTx is the ledger debit recorded when app is approved.
func ConsumptionTx(app Application, bucket Bucket, days decimal.Decimal, on generic.TimePoint, actor string) generic.Transaction {
	return generic.Transaction{
		ID:             generic.TransactionID("approve-" + app.ID),
		EntityID:       app.EmployeeID,
		PolicyID:       bucket.PolicyID(),
		ResourceType:   bucket,
		EffectiveAt:    on,
		Delta:          generic.Days(days).Neg(),
		Type:           generic.TxConsumption,
		ReferenceID:    app.ID,
		Reason:         app.Reason,
		IdempotencyKey: "approve-" + app.ID,
		Metadata:       map[string]string{"leave_type": string(app.Type)},
		CreatedBy:      actor,
	}
}

// ReversalTx undoes the consumption of app when it is cancelled.
func ReversalTx(app Application, bucket Bucket, days decimal.Decimal, on generic.TimePoint, actor string) generic.Transaction {
	return generic.Transaction{
		ID:             generic.TransactionID("cancel-" + app.ID),
		EntityID:       app.EmployeeID,
		PolicyID:       bucket.PolicyID(),
		ResourceType:   bucket,
		EffectiveAt:    on,
		Delta:          generic.Days(days),
		Type:           generic.TxReversal,
		ReferenceID:    app.ID,
		Reason:         "cancelled",
		IdempotencyKey: "cancel-" + app.ID,
		Metadata:       map[string]string{"leave_type": string(app.Type)},
		CreatedBy:      actor,
	}
}

// CarryoverTx records the earned-leave carryover granted for year.
func CarryoverTx(employeeID generic.EntityID, year int, days decimal.Decimal, actor string) generic.Transaction {
	key := fmt.Sprintf("carryover-%s-%d", employeeID, year)
	return generic.Transaction{
		ID:             generic.TransactionID(key),
		EntityID:       employeeID,
		PolicyID:       BucketEarned.PolicyID(),
		ResourceType:   BucketEarned,
		EffectiveAt:    generic.StartOfYear(year),
		Delta:          generic.Days(days),
		Type:           generic.TxGrant,
		Reason:         "earned leave carryover",
		IdempotencyKey: key,
		CreatedBy:      actor,
	}
}
