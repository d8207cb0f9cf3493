// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

// Command vibeyf is the console client: it runs the questionnaire, prints
// recommendations and manages the embedding cache.
//
// Configuration comes from the same file and environment variables as the
// server; see --config.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vibeyf-ai/vibeyf/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.NewRootCommand(version).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
