package database

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/signature"
)

// Tx is the transactional information submitted for admission. A Tx is
// immutable once constructed; the mempool stores owned copies.
type Tx struct {
	ID     AccountID `json:"id"`     // Id of the transaction and the account being debited.
	Amount uint64    `json:"amount"` // Monetary value moved by this transaction.
	Data   string    `json:"data"`   // Opaque payload: stake marker, hex signature or free text.
}

// NewTx constructs a new transaction.
func NewTx(id AccountID, amount uint64, data string) Tx {
	return Tx{
		ID:     id,
		Amount: amount,
		Data:   data,
	}
}

// Sign returns a copy of the transaction whose payload carries a hex
// encoded signature over the non-payload fields.
func (tx Tx) Sign(privateKey *ecdsa.PrivateKey) (Tx, error) {
	sig, err := signature.Sign(tx.unsigned(), privateKey)
	if err != nil {
		return Tx{}, err
	}

	tx.Data = sig
	return tx, nil
}

// Hash returns the unique hash for the transaction.
func (tx Tx) Hash() (string, error) {
	return signature.Hash(tx)
}

// Candidate returns the uniform view validators consume.
func (tx Tx) Candidate() Candidate {
	return Candidate{
		ID:       uint32(tx.ID),
		Data:     tx.Data,
		Record:   tx,
		Unsigned: tx.unsigned(),
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%d:%d", tx.ID, tx.Amount)
}

// unsigned returns the transaction with the payload cleared. This is the
// canonical message a signature in the payload is taken over.
func (tx Tx) unsigned() Tx {
	tx.Data = ""
	return tx
}
