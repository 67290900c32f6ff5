package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/signature"
	"github.com/everestp/blockchain-protocol/foundation/blockchain/validator"
)

func noopEv(v string, args ...any) {}

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine a block at a low difficulty.")
	{
		trans := []database.Tx{database.NewTx(1, 100, "x")}

		template, err := database.NewBlock(database.Block{}, "x", trans)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the block template: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the block template.", success)

		const difficulty = 1

		block, err := database.POW(context.Background(), template, difficulty, noopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the block: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to mine the block: nonce[%d]", success, block.Header.Nonce)

		hash, err := block.Hash()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to hash the block: %s", failed, err)
		}

		if !strings.HasPrefix(hash, "0") {
			t.Fatalf("\t%s\tShould have a leading zero hash, got %s.", failed, hash)
		}
		t.Logf("\t%s\tShould have a leading zero hash.", success)

		// The work strategy must agree the solved block is solved.
		work := validator.Work{Difficulty: difficulty}
		if !work.Validate(block.Candidate(), validator.Context{}) {
			t.Fatalf("\t%s\tShould re-validate the solved block with the work strategy.", failed)
		}
		t.Logf("\t%s\tShould re-validate the solved block with the work strategy.", success)

		// The search is ordered, so the same template resolves to the
		// same solution.
		again, err := database.POW(context.Background(), template, difficulty, noopEv)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine the block again: %s", failed, err)
		}
		if again.Header.Nonce != block.Header.Nonce {
			t.Fatalf("\t%s\tShould resolve to the same nonce, got %d exp %d.", failed, again.Header.Nonce, block.Header.Nonce)
		}
		t.Logf("\t%s\tShould resolve to the same nonce.", success)
	}
}

func Test_HashAgreement(t *testing.T) {
	t.Log("Given the need for every block number to hash by the same rule.")
	{
		block := database.Block{
			Header: database.BlockHeader{Number: 0, Data: "x"},
		}

		hash, err := block.Hash()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to hash a genesis numbered block: %s", failed, err)
		}
		t.Logf("\t%s\tShould be able to hash a genesis numbered block.", success)

		record, err := signature.Hash(block)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to hash the raw record: %s", failed, err)
		}

		// The work strategy hashes the raw record, so Block.Hash must
		// produce the same digest for any number.
		if hash != record {
			t.Fatalf("\t%s\tShould match the raw record hash, got %s exp %s.", failed, hash, record)
		}
		t.Logf("\t%s\tShould match the raw record hash.", success)

		if hash == signature.ZeroHash {
			t.Fatalf("\t%s\tShould not collapse to the zero hash.", failed)
		}
		t.Logf("\t%s\tShould not collapse to the zero hash.", success)
	}
}

func Test_POWGuards(t *testing.T) {
	t.Log("Given the need to refuse infeasible mining requests without scanning.")
	{
		template, err := database.NewBlock(database.Block{}, "x", []database.Tx{database.NewTx(1, 100, "")})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the block template: %s", failed, err)
		}

		if _, err := database.POW(context.Background(), template, 65, noopEv); !errors.Is(err, database.ErrExhausted) {
			t.Fatalf("\t%s\tShould get ErrExhausted for a difficulty over the ceiling, got: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrExhausted for a difficulty over the ceiling.", success)

		big, err := database.NewBlock(database.Block{}, strings.Repeat("y", database.MaxBlockPayload+1), nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the oversized template: %s", failed, err)
		}

		if _, err := database.POW(context.Background(), big, 1, noopEv); !errors.Is(err, database.ErrExhausted) {
			t.Fatalf("\t%s\tShould get ErrExhausted for an oversized payload, got: %v", failed, err)
		}
		t.Logf("\t%s\tShould get ErrExhausted for an oversized payload.", success)
	}
}

func Test_POWCancel(t *testing.T) {
	t.Log("Given the need to cancel a long running mining search.")
	{
		template, err := database.NewBlock(database.Block{}, "x", []database.Tx{database.NewTx(1, 100, "")})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the block template: %s", failed, err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := database.POW(ctx, template, 10, noopEv); !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould get the context error on cancellation, got: %v", failed, err)
		}
		t.Logf("\t%s\tShould get the context error on cancellation.", success)
	}
}
