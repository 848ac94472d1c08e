// Package main implements cropctl, a command line client that ranks crops
// in-process against the embedded (or an override) catalog.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
