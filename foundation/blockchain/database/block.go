package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/signature"
)

// MaxDifficulty is the ceiling on the number of leading zero hex characters
// a hash solution can be asked for. Above this the nonce search is
// effectively infinite and is refused instead of attempted.
const MaxDifficulty = 64

// MaxBlockPayload is the maximum length of a block payload accepted for
// mining. It bounds the hashing cost of each nonce attempt.
const MaxBlockPayload = 1000

// ErrExhausted is returned when the proof of work search can't produce a
// solution: the difficulty is over the ceiling, the payload is over size,
// or the entire nonce space was scanned without a hit.
var ErrExhausted = errors.New("nonce search exhausted")

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint32 `json:"number"`          // Block number in the chain.
	Nonce         uint64 `json:"nonce"`           // Value identified to solve the hash solution.
	Data          string `json:"data"`            // Opaque block payload.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block template was constructed.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader `json:"header"`
	Trans  []Tx        `json:"trans"`
}

// NewBlock constructs a block template chained to the previous block. Only
// the nonce remains mutable after this, and only inside the mining search.
func NewBlock(prevBlock Block, data string, trans []Tx) (Block, error) {
	prevBlockHash := signature.ZeroHash
	if prevBlock.Header.Number > 0 {
		hash, err := prevBlock.Hash()
		if err != nil {
			return Block{}, err
		}
		prevBlockHash = hash
	}

	nb := Block{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			Nonce:         0,
			Data:          data,
			PrevBlockHash: prevBlockHash,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
		},
		Trans: trans,
	}

	return nb, nil
}

// Hash returns the unique hash for the block. The whole block is hashed,
// transactions included, so the digest commits to the exact ordered set of
// transactions being sealed. Every block hashes the same way, so the work
// strategy and the chain agree on what counts as solved.
func (b Block) Hash() (string, error) {
	return signature.Hash(b)
}

// Candidate returns the uniform view validators consume.
func (b Block) Candidate() Candidate {
	unsigned := b
	unsigned.Header.Data = ""

	return Candidate{
		ID:       b.Header.Number,
		Data:     b.Header.Data,
		Record:   b,
		Unsigned: unsigned,
	}
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if difficulty > MaxDifficulty {
		return false
	}

	if len(hash) != 64 {
		return false
	}

	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}

// =============================================================================

// POW performs the work of mining to find a valid hash for the specified
// block template. The search starts at nonce 0 and walks the nonce space in
// order so a given template always resolves to the same solution.
func POW(ctx context.Context, b Block, difficulty uint, ev func(v string, args ...any)) (Block, error) {
	ev("database: POW: MINING: started: block[%d] txs[%d]", b.Header.Number, len(b.Trans))
	defer ev("database: POW: MINING: completed")

	if difficulty > MaxDifficulty {
		return Block{}, fmt.Errorf("difficulty %d over ceiling %d: %w", difficulty, MaxDifficulty, ErrExhausted)
	}

	if len(b.Header.Data) > MaxBlockPayload {
		return Block{}, fmt.Errorf("payload length %d over limit %d: %w", len(b.Header.Data), MaxBlockPayload, ErrExhausted)
	}

	b.Header.Nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: POW: MINING: attempts[%d]", attempts)
		}

		if ctx.Err() != nil {
			ev("database: POW: MINING: CANCELLED")
			return Block{}, ctx.Err()
		}

		hash, err := b.Hash()
		if err != nil {
			return Block{}, err
		}

		if IsHashSolved(difficulty, hash) {
			ev("database: POW: MINING: SOLVED: nonce[%d] hash[%s]", b.Header.Nonce, hash)
			return b, nil
		}

		if b.Header.Nonce == math.MaxUint64 {
			return Block{}, fmt.Errorf("nonce space scanned: %w", ErrExhausted)
		}
		b.Header.Nonce++
	}
}
