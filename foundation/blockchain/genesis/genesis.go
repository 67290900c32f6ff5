// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time         `json:"date"`
	ChainID      uint16            `json:"chain_id" validate:"required"`                                        // Unique id for this running instance.
	Difficulty   uint              `json:"difficulty" validate:"lte=64"`                                        // How difficult it needs to be to solve the work problem.
	PoolCapacity int               `json:"pool_capacity" validate:"required,gt=0"`                              // Maximum number of transactions the mempool admits.
	Strategy     string            `json:"strategy" validate:"required,oneof=work stake signature sequential"`  // Admission strategy gating the mempool.
	MinStake     uint64            `json:"min_stake"`                                                           // Minimum stake the stake strategy accepts; zero admits any parsable stake.
	PublicKey    string            `json:"public_key" validate:"required_if=Strategy signature,omitempty,hexadecimal"` // Hex public key the signature strategy verifies against.
	Balances     map[string]uint64 `json:"balances" validate:"required,min=1"`                                  // Starting balances keyed by decimal account id.
}

// check validates the genesis model after it is read from disk.
var check = validator.New(validator.WithRequiredStructEnabled())

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal genesis: %w", err)
	}

	if err := check.Struct(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validate genesis: %w", err)
	}

	return genesis, nil
}
