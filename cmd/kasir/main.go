package main

import (
	"fmt"
	"os"

	"github.com/andreasstove999/ecommerce-system/kasir-service-go/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
