package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/mempool"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/validator"
)

// ErrNoTransactions is returned when a block is requested to be sealed and
// no still valid transactions exist in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// ErrMiningExhausted is returned when the proof of work search gave up
// without producing a solved block.
var ErrMiningExhausted = errors.New("mining exhausted")

// =============================================================================

// SealBlock builds a block template from the current mempool snapshot,
// performs the proof of work search and, on success, confirms the sealed
// transactions and advances the chain. The search runs outside the state
// mutex so admission is not stalled; it is the natural cancellation point.
func (s *State) SealBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: SealBlock: MINING: snapshot mempool")

	vctx := s.validatorContext()

	trans := s.mempool.SnapshotValid(vctx)
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	latest := s.db.LatestBlock()

	template, err := database.NewBlock(latest, s.minerName, trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: SealBlock: MINING: perform POW: block[%d] txs[%d]", template.Header.Number, len(trans))

	block, err := database.POW(ctx, template, s.genesis.Difficulty, s.evHandler)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return database.Block{}, ctx.Err()
		case errors.Is(err, database.ErrExhausted):
			return database.Block{}, fmt.Errorf("%s: %w", err, ErrMiningExhausted)
		default:
			return database.Block{}, err
		}
	}

	// Re-check the solved block against the chain rules before accepting
	// it: the hash solution must hold and the number must advance.
	chain := validator.Validators{
		validator.Work{Difficulty: s.genesis.Difficulty},
		validator.Sequential{PreviousID: latest.Header.Number},
	}
	if !chain.Validate(block.Candidate(), vctx) {
		return database.Block{}, fmt.Errorf("sealed block %d failed chain validation", block.Header.Number)
	}

	if err := s.acceptBlock(block); err != nil {
		return database.Block{}, err
	}

	return block, nil
}

// acceptBlock confirms the block's transactions in their sealed order and
// makes the block the new head of the chain. A transaction that can no
// longer be confirmed is evicted from the pool so it can't be snapshotted
// into the next block; a block where nothing applied is refused.
func (s *State) acceptBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var applied int
	for _, tx := range block.Trans {
		if err := s.applyConfirmation(tx); err != nil {

			// Ledger state moved between snapshot and acceptance.
			s.evHandler("state: acceptBlock: WARNING: tx[%s]: %s", tx, err)

			if err := s.mempool.RemoveByID(tx.ID); err != nil && !errors.Is(err, mempool.ErrNotFound) {
				return err
			}
			continue
		}
		applied++
	}

	if applied == 0 {
		return fmt.Errorf("block %d: no transactions applied", block.Header.Number)
	}

	s.db.UpdateLatestBlock(block)

	s.publish("state: acceptBlock: sealed: block[%d] txs[%d] pool[%d]", block.Header.Number, len(block.Trans), s.mempool.Count())

	return nil
}
