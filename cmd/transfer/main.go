package main

import (
	"fmt"
	"os"

	"github.com/debanjo/microledger/internal/app"
)

func main() {
	if err := app.RunTransfer(); err != nil {
		fmt.Fprintf(os.Stderr, "application error: %v\n", err)
		os.Exit(1)
	}
}
