package state

import (
	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/genesis"
)

// QueryBalance returns the current balance for the specified account.
func (s *State) QueryBalance(accountID database.AccountID) uint64 {
	return s.db.Balance(accountID)
}

// QueryAccounts returns a copy of the set of accounts in the ledger.
func (s *State) QueryAccounts() map[database.AccountID]database.Account {
	return s.db.CopyAccounts()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryMempool returns a copy of the mempool entries in insertion order.
func (s *State) QueryMempool() []database.Tx {
	return s.mempool.Copy()
}

// QueryMempoolDigest returns the content fingerprint of the pool's current
// state.
func (s *State) QueryMempoolDigest() (string, error) {
	return s.mempool.Digest()
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}
