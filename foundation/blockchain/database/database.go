// Package database maintains the in memory ledger of account balances and
// the chain continuity information the validators consult.
package database

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/genesis"
)

// ErrInsufficientFunds is returned when an account's balance can't cover
// the amount a transaction moves.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Database manages data related to accounts who have transacted on the
// blockchain. Applying a transaction is the only mutator of balances and it
// is not idempotent; at most once application is the caller's job.
type Database struct {
	mu sync.RWMutex

	genesis     genesis.Genesis
	latestBlock Block
	accounts    map[AccountID]Account
}

// New constructs a new database and applies account genesis information.
func New(genesis genesis.Genesis) (*Database, error) {
	db := Database{
		genesis:  genesis,
		accounts: make(map[AccountID]Account),
	}

	for accountStr, balance := range genesis.Balances {
		accountID, err := ToAccountID(accountStr)
		if err != nil {
			return nil, err
		}
		db.accounts[accountID] = newAccount(accountID, balance)
	}

	return &db, nil
}

// Reset re-initializes the database back to the genesis state.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.latestBlock = Block{}
	db.accounts = make(map[AccountID]Account)
	for accountStr, balance := range db.genesis.Balances {
		accountID, err := ToAccountID(accountStr)
		if err != nil {
			return err
		}
		db.accounts[accountID] = newAccount(accountID, balance)
	}

	return nil
}

// Balance returns the current balance for the specified account. Unknown
// accounts are not an error, they have a zero balance.
func (db *Database) Balance(accountID AccountID) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.accounts[accountID].Balance
}

// CanAfford reports whether the account's balance covers the amount.
func (db *Database) CanAfford(accountID AccountID, amount uint64) bool {
	return db.Balance(accountID) >= amount
}

// CopyAccounts makes a copy of the current accounts in the database.
func (db *Database) CopyAccounts() map[AccountID]Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	accounts := make(map[AccountID]Account, len(db.accounts))
	for accountID, account := range db.accounts {
		accounts[accountID] = account
	}
	return accounts
}

// ApplyTransaction performs the business logic for applying a transaction
// to the database. A failed check leaves every balance untouched.
func (db *Database) ApplyTransaction(tx Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	account := db.accounts[tx.ID]
	if account.Balance < tx.Amount {
		return fmt.Errorf("account %d, bal %d, needed %d: %w", tx.ID, account.Balance, tx.Amount, ErrInsufficientFunds)
	}

	account.AccountID = tx.ID
	account.Balance -= tx.Amount
	db.accounts[tx.ID] = account

	return nil
}

// UpdateLatestBlock provides safe access to update the latest block.
func (db *Database) UpdateLatestBlock(block Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.latestBlock = block
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// =============================================================================

// ToAccountID converts the decimal string keys used by the genesis balances
// into an account id.
func ToAccountID(s string) (AccountID, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid account id %q: %w", s, err)
	}

	return AccountID(id), nil
}
