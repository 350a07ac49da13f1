// Package store provides in-process generic.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
)

// =============================================================================
// MEMORY STORE - In-memory ledger storage (tests, CLI, dev server)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	transactions map[key][]generic.Transaction
	idempotency  map[string]bool
}

type key struct {
	EntityID generic.EntityID
	PolicyID generic.PolicyID
}

func NewMemory() *Memory {
	return &Memory{
		transactions: make(map[key][]generic.Transaction),
		idempotency:  make(map[string]bool),
	}
}

// Append adds a single transaction. Append-only.
func (m *Memory) Append(_ context.Context, tx generic.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx.IdempotencyKey != "" && m.idempotency[tx.IdempotencyKey] {
		return generic.ErrDuplicateIdempotencyKey
	}
	m.appendLocked(tx)
	return nil
}

// AppendBatch adds multiple transactions atomically.
func (m *Memory) AppendBatch(_ context.Context, txs []generic.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendBatchLocked(txs)
}

func (m *Memory) appendBatchLocked(txs []generic.Transaction) error {
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		if tx.IdempotencyKey == "" {
			continue
		}
		if m.idempotency[tx.IdempotencyKey] || seen[tx.IdempotencyKey] {
			return generic.ErrDuplicateIdempotencyKey
		}
		seen[tx.IdempotencyKey] = true
	}
	for _, tx := range txs {
		m.appendLocked(tx)
	}
	return nil
}

// appendLocked keeps each entity+policy slice ordered by EffectiveAt.
// Equal dates keep insertion order.
func (m *Memory) appendLocked(tx generic.Transaction) {
	k := key{EntityID: tx.EntityID, PolicyID: tx.PolicyID}
	txs := m.transactions[k]

	i := sort.Search(len(txs), func(i int) bool {
		return txs[i].EffectiveAt.After(tx.EffectiveAt)
	})

	txs = append(txs, generic.Transaction{})
	copy(txs[i+1:], txs[i:])
	txs[i] = tx
	m.transactions[k] = txs

	if tx.IdempotencyKey != "" {
		m.idempotency[tx.IdempotencyKey] = true
	}
}

func (m *Memory) Load(_ context.Context, entityID generic.EntityID, policyID generic.PolicyID) ([]generic.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadLocked(entityID, policyID, nil), nil
}

func (m *Memory) LoadRange(_ context.Context, entityID generic.EntityID, policyID generic.PolicyID, from, to generic.TimePoint) ([]generic.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := generic.Period{Start: from, End: to}
	return m.loadLocked(entityID, policyID, &p), nil
}

func (m *Memory) loadLocked(entityID generic.EntityID, policyID generic.PolicyID, within *generic.Period) []generic.Transaction {
	var result []generic.Transaction
	for _, tx := range m.transactions[key{EntityID: entityID, PolicyID: policyID}] {
		if within != nil && !within.Contains(tx.EffectiveAt) {
			continue
		}
		result = append(result, tx)
	}
	return result
}

func (m *Memory) Exists(_ context.Context, idempotencyKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idempotency[idempotencyKey], nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with snapshot-and-rollback transactions.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx runs fn holding the write lock. Writes go straight to the maps and
// are rolled back from a snapshot if fn fails.
func (tm *TxMemory) WithTx(_ context.Context, fn func(generic.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snap := tm.snapshot()
	if err := fn(&txMemoryView{parent: tm.Memory}); err != nil {
		tm.transactions = snap.transactions
		tm.idempotency = snap.idempotency
		return err
	}
	return nil
}

type memorySnapshot struct {
	transactions map[key][]generic.Transaction
	idempotency  map[string]bool
}

func (tm *TxMemory) snapshot() memorySnapshot {
	txsCopy := make(map[key][]generic.Transaction, len(tm.transactions))
	for k, v := range tm.transactions {
		txsCopy[k] = append([]generic.Transaction(nil), v...)
	}
	idempCopy := make(map[string]bool, len(tm.idempotency))
	for k, v := range tm.idempotency {
		idempCopy[k] = v
	}
	return memorySnapshot{transactions: txsCopy, idempotency: idempCopy}
}

// txMemoryView is the Store handed to WithTx callbacks. The parent lock is
// already held, so it works on the maps directly.
type txMemoryView struct {
	parent *Memory
}

func (tv *txMemoryView) Append(_ context.Context, tx generic.Transaction) error {
	return tv.parent.appendBatchLocked([]generic.Transaction{tx})
}

func (tv *txMemoryView) AppendBatch(_ context.Context, txs []generic.Transaction) error {
	return tv.parent.appendBatchLocked(txs)
}

func (tv *txMemoryView) Load(_ context.Context, entityID generic.EntityID, policyID generic.PolicyID) ([]generic.Transaction, error) {
	return tv.parent.loadLocked(entityID, policyID, nil), nil
}

func (tv *txMemoryView) LoadRange(_ context.Context, entityID generic.EntityID, policyID generic.PolicyID, from, to generic.TimePoint) ([]generic.Transaction, error) {
	p := generic.Period{Start: from, End: to}
	return tv.parent.loadLocked(entityID, policyID, &p), nil
}

func (tv *txMemoryView) Exists(_ context.Context, idempotencyKey string) (bool, error) {
	return tv.parent.idempotency[idempotencyKey], nil
}
