// Package mempool maintains the bounded pool of transactions admitted but
// not yet confirmed into the ledger.
package mempool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/signature"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/validator"
)

// Set of mempool admission and removal failures. These are routine
// outcomes, the caller decides whether to retry or drop.
var (
	ErrFull     = errors.New("mempool full")
	ErrRejected = errors.New("transaction rejected")
	ErrNotFound = errors.New("transaction not found")
)

// Mempool represents a cache of transactions waiting to be sealed into a
// block. The pool owns its validator and owns copies of the transactions it
// admits; entries keep their insertion order.
type Mempool struct {
	mu        sync.RWMutex
	capacity  int
	pool      []database.Tx
	validator validator.Validator
}

// New constructs a new mempool with the specified capacity and admission
// strategy.
func New(capacity int, v validator.Validator) (*Mempool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if v == nil {
		return nil, errors.New("validator is required")
	}

	mp := Mempool{
		capacity:  capacity,
		pool:      make([]database.Tx, 0, capacity),
		validator: v,
	}

	return &mp, nil
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool. The capacity bound is checked
// first, then the admission strategy runs against the current context.
func (mp *Mempool) Add(tx database.Tx, ctx validator.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if len(mp.pool) >= mp.capacity {
		return fmt.Errorf("capacity %d reached: %w", mp.capacity, ErrFull)
	}

	if !mp.validator.Validate(tx.Candidate(), ctx) {
		return ErrRejected
	}

	mp.pool = append(mp.pool, tx)

	return nil
}

// RemoveByID removes the first transaction with the specified id from the
// pool.
func (mp *Mempool) RemoveByID(id database.AccountID) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, tx := range mp.pool {
		if tx.ID == id {
			mp.pool = append(mp.pool[:i], mp.pool[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("id %d: %w", id, ErrNotFound)
}

// SnapshotValid re-validates every entry against the current context and
// returns, in insertion order, only those still passing. Ledger state may
// have moved since admission, so each entry must still be affordable and
// still satisfy the admission strategy. The pool itself is not modified.
func (mp *Mempool) SnapshotValid(ctx validator.Context) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	valid := make([]database.Tx, 0, len(mp.pool))
	for _, tx := range mp.pool {
		if ctx.Ledger != nil && !ctx.Ledger.CanAfford(tx.ID, tx.Amount) {
			continue
		}
		if !mp.validator.Validate(tx.Candidate(), ctx) {
			continue
		}
		valid = append(valid, tx)
	}

	return valid
}

// Copy returns a copy of the current pool entries in insertion order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make([]database.Tx, 0, mp.capacity)
}

// Digest canonically serializes the full ordered entry sequence and returns
// its hash. The digest is a content fingerprint of the pool's current
// state; two pools holding the same entries in the same order agree.
func (mp *Mempool) Digest() (string, error) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return signature.Hash(mp.pool)
}
