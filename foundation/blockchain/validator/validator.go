// Package validator provides the closed set of admission strategies that
// gate transactions and blocks entering the mempool. Every strategy fails
// closed: malformed payloads evaluate to false, never to true and never to
// a panic.
package validator

import (
	"fmt"
	"strconv"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/signature"
)

// Strategies for retrieving a validator by name.
const (
	StrategyWork       = "work"
	StrategySignature  = "signature"
	StrategySequential = "sequential"
	StrategyStake      = "stake"
)

// Context carries the read only state a strategy may consult. Strategies
// never mutate the ledger.
type Context struct {
	Ledger *database.Database
}

// Validator is the admission predicate applied to candidates.
type Validator interface {
	Validate(candidate database.Candidate, ctx Context) bool
}

// Config carries the per strategy parameters. Each strategy owns only the
// parameters it needs.
type Config struct {
	Difficulty uint
	MinStake   uint64
	PublicKey  []byte
	PreviousID uint32
}

// strategies holds the set of validator strategies the node can be
// configured with.
var strategies = map[string]func(cfg Config) Validator{
	StrategyWork:       func(cfg Config) Validator { return Work{Difficulty: cfg.Difficulty} },
	StrategyStake:      func(cfg Config) Validator { return Stake{MinStake: cfg.MinStake} },
	StrategySignature:  func(cfg Config) Validator { return Signature{PublicKey: cfg.PublicKey} },
	StrategySequential: func(cfg Config) Validator { return Sequential{PreviousID: cfg.PreviousID} },
}

// Retrieve returns the specified validator strategy.
func Retrieve(strategy string, cfg Config) (Validator, error) {
	fn, exists := strategies[strategy]
	if !exists {
		return nil, fmt.Errorf("strategy %q does not exist", strategy)
	}

	return fn(cfg), nil
}

// =============================================================================

// Work accepts a candidate whose content hash meets a proof of work
// difficulty.
type Work struct {
	Difficulty uint
}

// Validate computes the candidate's hash and checks it carries at least
// Difficulty leading zero hex characters. A difficulty over the chain
// ceiling never passes; an admission rule can't demand an infeasible search.
func (v Work) Validate(candidate database.Candidate, ctx Context) bool {
	if v.Difficulty > database.MaxDifficulty {
		return false
	}

	hash, err := signature.Hash(candidate.Record)
	if err != nil {
		return false
	}

	return database.IsHashSolved(v.Difficulty, hash)
}

// =============================================================================

// Stake accepts a candidate whose payload carries a decimal stake of at
// least MinStake.
type Stake struct {
	MinStake uint64
}

// Validate parses the payload as a decimal integer stake.
func (v Stake) Validate(candidate database.Candidate, ctx Context) bool {
	stake, err := strconv.ParseUint(candidate.Data, 10, 64)
	if err != nil {
		return false
	}

	return stake >= v.MinStake
}

// =============================================================================

// Signature accepts a candidate whose payload carries a hex signature over
// the candidate's non payload fields, verified against PublicKey.
type Signature struct {
	PublicKey []byte
}

// Validate verifies the payload signature.
func (v Signature) Validate(candidate database.Candidate, ctx Context) bool {
	if candidate.Data == "" {
		return false
	}

	return signature.Verify(candidate.Unsigned, candidate.Data, v.PublicKey)
}

// =============================================================================

// Sequential accepts a candidate whose id strictly advances past a known
// previous id. This is the chain continuity check applied to blocks.
type Sequential struct {
	PreviousID uint32
}

// Validate checks the candidate id strictly advances.
func (v Sequential) Validate(candidate database.Candidate, ctx Context) bool {
	return candidate.ID > v.PreviousID
}

// =============================================================================

// Validators applies a set of strategies as a logical AND. All must pass.
type Validators []Validator

// Validate runs every strategy in the set against the candidate.
func (vs Validators) Validate(candidate database.Candidate, ctx Context) bool {
	for _, v := range vs {
		if !v.Validate(candidate, ctx) {
			return false
		}
	}

	return true
}
