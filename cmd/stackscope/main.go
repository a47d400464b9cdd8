// Package main provides the entry point for the stackscope CLI.
package main

import (
	"context"
	"os"

	"github.com/vcnlab/stackscope/internal/cli"
)

// Build information set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse --short HEAD) -X main.date=$(date -u +%Y-%m-%d)"
var (
	version string //nolint:gochecknoglobals // set via ldflags
	commit  string //nolint:gochecknoglobals // set via ldflags
	date    string //nolint:gochecknoglobals // set via ldflags
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()
	os.Exit(cli.ExitCodeForError(err))
}
