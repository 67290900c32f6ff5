package state

import (
	"errors"
	"fmt"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/mempool"
)

// ErrInsufficientFunds is returned when admission is refused because the
// debited account can't cover the transaction amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAlreadyConfirmed is returned when a transaction is confirmed a second
// time. The ledger is not touched again.
var ErrAlreadyConfirmed = errors.New("transaction already confirmed")

// SubmitTransaction routes an incoming transaction through the ledger
// solvency check and the mempool admission strategy. A transaction must be
// both affordable and strategy approved; admission never moves balances. A
// transaction whose content was already confirmed is refused outright so it
// can't re-enter the pool and be sealed a second time.
func (s *State) SubmitTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := tx.Hash()
	if err != nil {
		return fmt.Errorf("hash tx: %w", err)
	}
	if s.confirmed[key] {
		return fmt.Errorf("tx[%s]: %w", tx, ErrAlreadyConfirmed)
	}

	if !s.db.CanAfford(tx.ID, tx.Amount) {
		return fmt.Errorf("account %d, needed %d: %w", tx.ID, tx.Amount, ErrInsufficientFunds)
	}

	if err := s.mempool.Add(tx, s.validatorContext()); err != nil {
		return err
	}

	s.publish("state: SubmitTransaction: admitted: tx[%s] pool[%d]", tx, s.mempool.Count())

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// Confirm applies the transaction to the ledger exactly once and removes it
// from the mempool. Confirmation is the sole place balances actually move.
func (s *State) Confirm(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyConfirmation(tx); err != nil {
		return err
	}

	s.publish("state: Confirm: confirmed: tx[%s] balance[%d]", tx, s.db.Balance(tx.ID))

	return nil
}

// applyConfirmation performs the at most once ledger application for a
// transaction. Confirmation is tracked by the transaction's content hash:
// an account is free to transact again, the same transaction is not. The
// caller must hold the state mutex.
func (s *State) applyConfirmation(tx database.Tx) error {
	key, err := tx.Hash()
	if err != nil {
		return fmt.Errorf("hash tx: %w", err)
	}
	if s.confirmed[key] {
		return fmt.Errorf("tx[%s]: %w", tx, ErrAlreadyConfirmed)
	}

	if err := s.db.ApplyTransaction(tx); err != nil {
		return err
	}
	s.confirmed[key] = true

	// The entry may already have left the pool; that is not a failure of
	// the confirmation itself.
	if err := s.mempool.RemoveByID(tx.ID); err != nil && !errors.Is(err, mempool.ErrNotFound) {
		return err
	}

	return nil
}
