package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(accountCmd)
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the public key material for the private key",
	Long:  "Prints the address and the compressed public key. The public key is what a signature gated genesis file carries.",
	RunE:  accountRun,
}

func accountRun(cmd *cobra.Command, args []string) error {
	privateKey, err := loadPrivateKey()
	if err != nil {
		return err
	}

	fmt.Println("address   :", crypto.PubkeyToAddress(privateKey.PublicKey).String())
	fmt.Println("public key:", hex.EncodeToString(crypto.CompressPubkey(&privateKey.PublicKey)))
	return nil
}
