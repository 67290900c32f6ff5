package database

// AccountID identifies an account in the ledger. The tutorials this chain
// grew out of use one numeric namespace for both the transaction id and the
// account being debited, and that simplification is retained here.
type AccountID uint32

// Account represents information stored in the database for an individual
// account.
type Account struct {
	AccountID AccountID
	Balance   uint64
}

// newAccount constructs a new account value for use.
func newAccount(accountID AccountID, balance uint64) Account {
	return Account{
		AccountID: accountID,
		Balance:   balance,
	}
}
