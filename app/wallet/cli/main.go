package main

import "github.com/everestp/blockchain-protocol/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
