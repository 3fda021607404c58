package main

import (
	"os"

	"github.com/vegasq/policycat/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
