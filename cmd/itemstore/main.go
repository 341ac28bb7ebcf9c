// Command itemstore serves the item collection over HTTP and offers
// maintenance subcommands for seeding and inspecting the configured store.
//
//	itemstore serve --addr :3001
//	itemstore seed --force
//	itemstore stats
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
