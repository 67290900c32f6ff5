package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/everestp/blockchain-protocol/foundation/blockchain/database"
)

var (
	signID     uint32
	signAmount uint64
)

func init() {
	signCmd.Flags().Uint32Var(&signID, "id", 0, "Transaction and account id.")
	signCmd.Flags().Uint64Var(&signAmount, "amount", 0, "Amount the transaction moves.")
	signCmd.MarkFlagRequired("id")
	signCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(signCmd)
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction and print the payload to submit",
	RunE:  signRun,
}

func signRun(cmd *cobra.Command, args []string) error {
	privateKey, err := loadPrivateKey()
	if err != nil {
		return err
	}

	tx := database.NewTx(database.AccountID(signID), signAmount, "")
	signedTx, err := tx.Sign(privateKey)
	if err != nil {
		return err
	}

	fmt.Println("tx     :", signedTx)
	fmt.Println("payload:", signedTx.Data)
	return nil
}
