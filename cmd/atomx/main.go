// Package main is the entry point for the atomx CLI.
package main

import "github.com/atomx/atomx-cli/internal/cli"

func main() {
	cli.Execute()
}
