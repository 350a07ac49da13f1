/*
ledger.go - Append-only transaction log

PURPOSE:
  The Ledger is the immutable source of truth for all balance changes.
  Every approval debit, cancellation credit and manual grant is recorded
  here. Usage is always computed by replaying transactions; there is no
  separate "used" column that can drift.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete.
  2. IMMUTABLE: Once written, transactions cannot be modified
  3. IDEMPOTENT: Same idempotency key = same transaction (no duplicates)

CORRECTIONS:
  A mistake is never edited. A Reversal transaction with the opposite sign
  is appended and both stay in the ledger.

EXAMPLE FLOW:
  1. Application approved:   TxConsumption -3 (earned, effective Jul 14)
  2. Application cancelled:  TxReversal   +3 (earned, effective Jul 14)

  Earned ledger: [-3, +3] = nothing used

SEE ALSO:
  - store.go: Low-level persistence interface
  - leave/balance.go: Replays the ledger into a per-year entry
*/
package generic

import "context"

// =============================================================================
// LEDGER - Append-only transaction log
// =============================================================================

type Ledger interface {
	// Append adds a transaction. Fails if idempotency key exists.
	Append(ctx context.Context, tx Transaction) error

	// AppendBatch adds multiple transactions atomically.
	AppendBatch(ctx context.Context, txs []Transaction) error

	// Transactions returns all transactions for entity+policy, chronologically.
	Transactions(ctx context.Context, entityID EntityID, policyID PolicyID) ([]Transaction, error)

	// TransactionsInRange returns transactions effective in [from, to].
	TransactionsInRange(ctx context.Context, entityID EntityID, policyID PolicyID, from, to TimePoint) ([]Transaction, error)
}

// =============================================================================
// DEFAULT LEDGER - Implementation using Store
// =============================================================================

type DefaultLedger struct {
	Store Store
}

func NewLedger(store Store) *DefaultLedger {
	return &DefaultLedger{Store: store}
}

func (l *DefaultLedger) Append(ctx context.Context, tx Transaction) error {
	if tx.IdempotencyKey != "" {
		exists, err := l.Store.Exists(ctx, tx.IdempotencyKey)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateIdempotencyKey
		}
	}
	return l.Store.Append(ctx, tx)
}

func (l *DefaultLedger) AppendBatch(ctx context.Context, txs []Transaction) error {
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx.IdempotencyKey == "" {
			continue
		}
		if seen[tx.IdempotencyKey] {
			return ErrDuplicateIdempotencyKey
		}
		seen[tx.IdempotencyKey] = true

		exists, err := l.Store.Exists(ctx, tx.IdempotencyKey)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateIdempotencyKey
		}
	}
	return l.Store.AppendBatch(ctx, txs)
}

func (l *DefaultLedger) Transactions(ctx context.Context, entityID EntityID, policyID PolicyID) ([]Transaction, error) {
	return l.Store.Load(ctx, entityID, policyID)
}

func (l *DefaultLedger) TransactionsInRange(ctx context.Context, entityID EntityID, policyID PolicyID, from, to TimePoint) ([]Transaction, error) {
	return l.Store.LoadRange(ctx, entityID, policyID, from, to)
}
