package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupted run already reported its terminal state; keep
		// stderr quiet for plain cancellation.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "dubsync: "+err.Error())
		}
		os.Exit(1)
	}
}
