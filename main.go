// Package main is the entry point for the fashionstore CLI application.
// It manages the storefront account session from the terminal.
package main

import (
	"fashionstore/cli/cmd"
)

// main is the entry point for the fashionstore CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
