package mempool_test

import (
	"errors"
	"testing"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/genesis"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/mempool"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/validator"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func newLedger(t *testing.T, balances map[string]uint64) *database.Database {
	t.Helper()

	db, err := database.New(genesis.Genesis{
		ChainID:      1,
		PoolCapacity: 10,
		Strategy:     "work",
		Balances:     balances,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the ledger: %s", failed, err)
	}

	return db
}

func Test_Capacity(t *testing.T) {
	t.Log("Given the need to bound the number of admitted transactions.")
	{
		mp, err := mempool.New(2, validator.Work{Difficulty: 0})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the mempool: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the mempool.", success)

		ctx := validator.Context{}

		if err := mp.Add(database.NewTx(1, 100, ""), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add the first transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to add the first transaction.", success)

		if err := mp.Add(database.NewTx(2, 200, ""), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add the second transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to add the second transaction.", success)

		if err := mp.Add(database.NewTx(3, 50, ""), ctx); !errors.Is(err, mempool.ErrFull) {
			t.Fatalf("\t%s\tShould get ErrFull for the third transaction, got: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrFull for the third transaction.", success)

		if count := mp.Count(); count != 2 {
			t.Fatalf("\t%s\tShould hold exactly 2 transactions, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould hold exactly 2 transactions.", success)
	}
}

func Test_Rejection(t *testing.T) {
	t.Log("Given the need to refuse transactions the strategy rejects.")
	{
		mp, err := mempool.New(10, validator.Stake{MinStake: 500})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the mempool: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the mempool.", success)

		ctx := validator.Context{}

		if err := mp.Add(database.NewTx(1, 100, "1000"), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add a staked transaction: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to add a staked transaction.", success)

		if err := mp.Add(database.NewTx(2, 100, "junk"), ctx); !errors.Is(err, mempool.ErrRejected) {
			t.Fatalf("\t%s\tShould get ErrRejected for a malformed stake, got: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrRejected for a malformed stake.", success)

		if count := mp.Count(); count != 1 {
			t.Fatalf("\t%s\tShould hold exactly 1 transaction, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould hold exactly 1 transaction.", success)
	}
}

func Test_Remove(t *testing.T) {
	t.Log("Given the need to remove transactions by id.")
	{
		mp, err := mempool.New(10, validator.Work{Difficulty: 0})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the mempool: %s", failed, err)
		}

		ctx := validator.Context{}
		for _, tx := range []database.Tx{database.NewTx(1, 100, ""), database.NewTx(2, 200, ""), database.NewTx(3, 300, "")} {
			if err := mp.Add(tx, ctx); err != nil {
				t.Fatalf("\t%s\tShould be able to add transaction %s: %s", failed, tx, err)
			}
		}
		t.Logf("\t%s\tShould be able to add three transactions.", success)

		if err := mp.RemoveByID(2); err != nil {
			t.Fatalf("\t%s\tShould be able to remove transaction 2: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to remove transaction 2.", success)

		if err := mp.RemoveByID(2); !errors.Is(err, mempool.ErrNotFound) {
			t.Fatalf("\t%s\tShould get ErrNotFound removing it again, got: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrNotFound removing it again.", success)

		// Insertion order must survive removal.
		entries := mp.Copy()
		if len(entries) != 2 || entries[0].ID != 1 || entries[1].ID != 3 {
			t.Fatalf("\t%s\tShould keep entries 1 and 3 in order, got %v.", failed, entries)
		}
		t.Logf("\t%s\tShould keep entries 1 and 3 in order.", success)
	}
}

func Test_Digest(t *testing.T) {
	t.Log("Given the need for a stable content fingerprint of the pool.")
	{
		mp, err := mempool.New(10, validator.Work{Difficulty: 0})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the mempool: %s", failed, err)
		}

		ctx := validator.Context{}
		if err := mp.Add(database.NewTx(1, 100, ""), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add a transaction: %s", failed, err)
		}

		d1, err := mp.Digest()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to compute the digest: %s", failed, err)
		}
		d2, err := mp.Digest()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to compute the digest again: %s", failed, err)
		}

		if d1 != d2 {
			t.Fatalf("\t%s\tShould compute identical digests without mutation: %s vs %s.", failed, d1, d2)
		}
		t.Logf("\t%s\tShould compute identical digests without mutation.", success)

		if err := mp.Add(database.NewTx(2, 200, ""), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add another transaction: %s", failed, err)
		}

		d3, err := mp.Digest()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to compute the digest after mutation: %s", failed, err)
		}

		if d1 == d3 {
			t.Fatalf("\t%s\tShould compute a different digest after mutation.", failed)
		}
		t.Logf("\t%s\tShould compute a different digest after mutation.", success)
	}
}

func Test_SnapshotValid(t *testing.T) {
	t.Log("Given the need to re-validate entries after the ledger moves.")
	{
		db := newLedger(t, map[string]uint64{"1": 1000, "2": 1000})
		ctx := validator.Context{Ledger: db}

		mp, err := mempool.New(10, validator.Work{Difficulty: 0})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the mempool: %s", failed, err)
		}

		if err := mp.Add(database.NewTx(1, 600, ""), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add a transaction for account 1: %s", failed, err)
		}
		if err := mp.Add(database.NewTx(2, 400, ""), ctx); err != nil {
			t.Fatalf("\t%s\tShould be able to add a transaction for account 2: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to add both transactions.", success)

		if snapshot := mp.SnapshotValid(ctx); len(snapshot) != 2 {
			t.Fatalf("\t%s\tShould see both entries in the snapshot, got %d.", failed, len(snapshot))
		}
		t.Logf("\t%s\tShould see both entries in the snapshot.", success)

		// Drain account 1 so its pending entry is no longer affordable.
		if err := db.ApplyTransaction(database.NewTx(1, 900, "")); err != nil {
			t.Fatalf("\t%s\tShould be able to drain account 1: %s", failed, err)
		}

		snapshot := mp.SnapshotValid(ctx)
		if len(snapshot) != 1 || snapshot[0].ID != 2 {
			t.Fatalf("\t%s\tShould only see the entry for account 2, got %v.", failed, snapshot)
		}
		t.Logf("\t%s\tShould only see the entry for account 2.", success)

		// The snapshot filters, it does not evict.
		if count := mp.Count(); count != 2 {
			t.Fatalf("\t%s\tShould still hold both entries, got %d.", failed, count)
		}
		t.Logf("\t%s\tShould still hold both entries.", success)
	}
}
