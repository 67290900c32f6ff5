// Package state is the core API for the node and implements all the
// business rules and processing.
package state

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/genesis"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/mempool"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/validator"
	"github.com/everestp/blockchain-protocol/foundation/events"
)

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	Genesis   genesis.Genesis
	MinerName string
	EvHandler EventHandler
	Events    *events.Events
}

// State manages the blockchain node. It exclusively owns the ledger and
// the mempool; admission, confirmation and sealing serialize on one mutex
// so their read then write sequences never interleave.
type State struct {
	mu sync.Mutex

	genesis   genesis.Genesis
	minerName string
	evHandler EventHandler
	events    *events.Events

	db        *database.Database
	mempool   *mempool.Mempool
	confirmed map[string]bool

	// Worker is assigned by the worker package when it runs.
	Worker Worker
}

// New constructs a new node state for processing transactions and blocks.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Genesis)
	if err != nil {
		return nil, err
	}

	// Construct the admission strategy the genesis file names. The
	// strategy owns only the parameters it needs.
	var publicKey []byte
	if cfg.Genesis.PublicKey != "" {
		publicKey, err = hex.DecodeString(cfg.Genesis.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("decode genesis public key: %w", err)
		}
	}

	vtor, err := validator.Retrieve(cfg.Genesis.Strategy, validator.Config{
		Difficulty: cfg.Genesis.Difficulty,
		MinStake:   cfg.Genesis.MinStake,
		PublicKey:  publicKey,
	})
	if err != nil {
		return nil, err
	}

	mpool, err := mempool.New(cfg.Genesis.PoolCapacity, vtor)
	if err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		minerName: cfg.MinerName,
		evHandler: ev,
		events:    cfg.Events,

		db:        db,
		mempool:   mpool,
		confirmed: make(map[string]bool),
	}

	// The Worker is not set here. The call to worker.Run will assign
	// itself and start the background processing.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Truncate resets the node back to the genesis state.
func (s *State) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mempool.Truncate()
	s.confirmed = make(map[string]bool)

	return s.db.Reset()
}

// =============================================================================

// publish logs the event and broadcasts it to any registered listener.
func (s *State) publish(v string, args ...any) {
	s.evHandler(v, args...)

	if s.events != nil {
		s.events.Send(fmt.Sprintf(v, args...))
	}
}

// validatorContext returns the read only context strategies run against.
func (s *State) validatorContext() validator.Context {
	return validator.Context{Ledger: s.db}
}
