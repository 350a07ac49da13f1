package generic_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
	"github.com/eigen04/hr-mgmt-v2-sub000/generic/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(key string, on generic.TimePoint, delta float64) generic.Transaction {
	return generic.Transaction{
		ID:             generic.TransactionID(key),
		EntityID:       "emp-1",
		PolicyID:       "casual",
		ResourceType:   generic.StoredResource("casual"),
		EffectiveAt:    on,
		Delta:          generic.NewAmount(delta, generic.UnitDays),
		Type:           generic.TxConsumption,
		IdempotencyKey: key,
	}
}

func TestLedger_AppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ledger := generic.NewLedger(store.NewMemory())

	require.NoError(t, ledger.Append(ctx, tx("approve-a1", generic.NewTimePoint(2025, time.June, 2), -2)))

	err := ledger.Append(ctx, tx("approve-a1", generic.NewTimePoint(2025, time.June, 2), -2))
	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)
	assert.True(t, generic.IsClientError(err))

	txs, err := ledger.Transactions(ctx, "emp-1", "casual")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestLedger_AppendBatch_RejectsDuplicatesInBatch(t *testing.T) {
	ctx := context.Background()
	ledger := generic.NewLedger(store.NewMemory())
	on := generic.NewTimePoint(2025, time.June, 2)

	err := ledger.AppendBatch(ctx, []generic.Transaction{tx("k", on, -1), tx("k", on, -1)})
	assert.ErrorIs(t, err, generic.ErrDuplicateIdempotencyKey)

	txs, err := ledger.Transactions(ctx, "emp-1", "casual")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLedger_TransactionsInRange(t *testing.T) {
	ctx := context.Background()
	ledger := generic.NewLedger(store.NewMemory())

	require.NoError(t, ledger.AppendBatch(ctx, []generic.Transaction{
		tx("a", generic.NewTimePoint(2025, time.July, 1), -3),
		tx("b", generic.NewTimePoint(2024, time.December, 30), -4),
		tx("c", generic.NewTimePoint(2025, time.January, 2), -1),
	}))

	year := generic.CalendarYear(2025)
	txs, err := ledger.TransactionsInRange(ctx, "emp-1", "casual", year.Start, year.End)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "c", txs[0].IdempotencyKey, "ordered by effective date")
	assert.Equal(t, "a", txs[1].IdempotencyKey)
}

func TestTxMemory_RollsBack(t *testing.T) {
	// GIVEN: A transactional memory store
	// WHEN: The callback appends and then fails
	// THEN: The append and its idempotency key are gone

	ctx := context.Background()
	tm := store.NewTxMemory()
	boom := errors.New("boom")

	err := tm.WithTx(ctx, func(s generic.Store) error {
		require.NoError(t, s.Append(ctx, tx("k", generic.NewTimePoint(2025, time.June, 2), -1)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	exists, err := tm.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	txs, err := tm.Load(ctx, "emp-1", "casual")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestBalance_Modes(t *testing.T) {
	bal := generic.Balance{
		AccruedToDate:    generic.NewAmount(5, generic.UnitDays),
		TotalEntitlement: generic.NewAmount(12, generic.UnitDays),
		TotalConsumed:    generic.NewAmount(2, generic.UnitDays),
		Pending:          generic.NewAmount(1, generic.UnitDays),
		Adjustments:      generic.NewAmount(0, generic.UnitDays),
	}
	four := generic.NewAmount(4, generic.UnitDays)

	assert.True(t, bal.CanConsumeWithMode(four, generic.ConsumeAhead))
	assert.False(t, bal.CanConsumeWithMode(four, generic.ConsumeUpToAccrued))
	assert.True(t, bal.Shortfall(four, generic.ConsumeUpToAccrued).Value.Equal(decimal.NewFromInt(2)))
	assert.True(t, bal.Committed().Value.Equal(decimal.NewFromInt(3)))
}
