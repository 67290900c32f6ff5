// Package cmd contains the wallet tooling. The wallet is the external key
// and signature collaborator for the node; the node itself only ever
// verifies.
package cmd

import (
	"crypto/ecdsa"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
)

const keyExtension = ".ecdsa"

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Name of the private key file.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Key generation and transaction signing for the chain",
}

// Execute runs the wallet command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

func privateKeyPath() string {
	if !strings.HasSuffix(accountName, keyExtension) {
		accountName += keyExtension
	}

	return filepath.Join(accountPath, accountName)
}

func loadPrivateKey() (*ecdsa.PrivateKey, error) {
	return crypto.LoadECDSA(privateKeyPath())
}
