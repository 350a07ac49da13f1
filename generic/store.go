/*
store.go - Persistence interface for ledger transactions

PURPOSE:
  Defines the boundary between ledger logic and the database. The Store
  keeps append-only semantics; implementations may be SQLite or memory.

KEY INTERFACES:
  Store:   Core transaction persistence (append, load, exists)
  TxStore: Runs a function against a transactional view of the Store

APPEND-ONLY CONTRACT:
  - Append(): Single transaction write
  - AppendBatch(): Atomic multi-transaction write
  - NO Update() or Delete() methods exist

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for tests and the CLI

SEE ALSO:
  - ledger.go: Higher-level interface using Store
*/
package generic

import "context"

// =============================================================================
// STORE - Interface for transaction persistence (append-only)
// =============================================================================

type Store interface {
	// Append persists a transaction. Returns error if idempotency key exists.
	Append(ctx context.Context, tx Transaction) error

	// AppendBatch persists multiple transactions atomically.
	AppendBatch(ctx context.Context, txs []Transaction) error

	// Load returns all transactions for entity+policy, ordered by EffectiveAt.
	Load(ctx context.Context, entityID EntityID, policyID PolicyID) ([]Transaction, error)

	// LoadRange returns transactions effective in [from, to].
	LoadRange(ctx context.Context, entityID EntityID, policyID PolicyID, from, to TimePoint) ([]Transaction, error)

	// Exists checks if idempotency key already exists.
	Exists(ctx context.Context, idempotencyKey string) (bool, error)
}

// =============================================================================
// TRANSACTIONAL STORE - For atomic operations across multiple writes
// =============================================================================

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
