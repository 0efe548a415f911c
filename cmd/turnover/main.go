package main

import (
	"os"
)

// ============================================================================
// TURNOVER CLI — Load, summarize and plot a tabular dataset
// ============================================================================

var version = "0.3.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
