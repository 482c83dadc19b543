// shopctl is the operator CLI for the shop API database.
//
//	shopctl migrate
//	shopctl seed --email shop@example.com --password secret
//	shopctl import --owner shop@example.com pricelist.yaml
//	shopctl purge-tokens
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
