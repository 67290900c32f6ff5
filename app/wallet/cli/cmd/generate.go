package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new private key and write it to disk",
	RunE:  generateRun,
}

func generateRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(accountPath, 0o755); err != nil {
		return err
	}

	path := privateKeyPath()
	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return err
	}

	fmt.Println("private key:", filepath.Clean(path))
	return nil
}
