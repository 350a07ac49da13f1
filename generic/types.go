/*
Package generic provides the domain-agnostic core the leave engine is built on.

PURPOSE:
  Quantities, dates, periods, and the append-only transaction ledger live
  here. Nothing in this package knows what a "casual leave" or a "half day"
  is; the leave package supplies those meanings on top.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A decimal quantity with a unit (0.5 days, 182 days)
  - Transaction: An immutable ledger entry recording a balance change
  - EntityID / PolicyID: Type-safe identifiers for employee and bucket

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified, only reversed
  2. Precision: decimal.Decimal keeps half days exact
  3. Type Safety: Distinct ID types cannot be mixed up

USAGE:
  half := generic.NewAmount(0.5, generic.UnitDays)
  tx := generic.Transaction{
      EntityID: "emp-123",
      PolicyID: "earned",
      Delta:    half.Neg(),
      Type:     generic.TxConsumption,
  }

SEE ALSO:
  - time.go: TimePoint and calendar helpers
  - balance.go: Availability math over accrued and entitled amounts
  - ledger.go: Transaction persistence interface
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitDays Unit = "days"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

// Days wraps a decimal as a day amount.
func Days(d decimal.Decimal) Amount {
	return Amount{Value: d, Unit: UnitDays}
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EntityID string
type PolicyID string
type TransactionID string

// ResourceType identifies what kind of resource a transaction moves.
// Domain packages define their own concrete types:
//
//	// In leave/types.go
//	type Bucket string
//	func (b Bucket) ResourceID() string     { return string(b) }
//	func (b Bucket) ResourceDomain() string { return "leave" }
type ResourceType interface {
	ResourceID() string
	ResourceDomain() string
}

// StoredResource is the ResourceType rebuilt from a persisted resource id.
// Stores return it when reading transactions back.
type StoredResource string

func (r StoredResource) ResourceID() string     { return string(r) }
func (r StoredResource) ResourceDomain() string { return "stored" }

// =============================================================================
// TRANSACTION - Atomic change to resource balance
// =============================================================================

type TransactionType string

const (
	TxGrant       TransactionType = "grant"       // Adds to the period entitlement
	TxConsumption TransactionType = "consumption" // Resource used (approved application)
	TxReversal    TransactionType = "reversal"    // Undo a previous consumption
)

type Transaction struct {
	ID             TransactionID
	EntityID       EntityID
	PolicyID       PolicyID
	ResourceType   ResourceType
	EffectiveAt    TimePoint
	Delta          Amount
	Type           TransactionType
	ReferenceID    string
	Reason         string
	IdempotencyKey string
	Metadata       map[string]string

	// Audit fields
	CreatedBy string
	CreatedAt TimePoint
}
