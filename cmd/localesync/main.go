// Command localesync reconciles locale siblings in the headless CMS.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newApp(os.Stdout).Execute(ctx, os.Args[1:])
	if err == nil {
		return
	}
	if !errors.Is(err, errRunFailed) {
		fmt.Fprintln(os.Stderr, "localesync:", err)
	}
	stop()
	os.Exit(1)
}
