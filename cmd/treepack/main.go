// treepack packs rectangles into a fixed or growing container
//
// Build:
//   go build -o treepack ./cmd/treepack
//
// Examples:
//   treepack pack --example complex -f svg,pdf -o out/complex
//   treepack pack blocks.txt --size 800x600 --order area
//   treepack compare --example strips

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/piwi3910/treepack/internal/cli"
	"github.com/piwi3910/treepack/internal/packerr"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", packerr.UserMessage(err))
		os.Exit(1)
	}
}
