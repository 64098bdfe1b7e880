package main

import (
	"fmt"
	"os"

	"github.com/MrSnakeDoc/techtrack/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ techtrack: %v\n", err)
		os.Exit(1)
	}
}
