package mcp

import (
	"context"
	"os"
	"time"

	"whodunit/internal/logging"
)

// ParentPollInterval is how often WatchParent checks the parent pid.
var ParentPollInterval = 2 * time.Second

// WatchParent calls cancel once the parent process has gone away, so a
// stdio server does not outlive the client that spawned it. It never
// touches stdin, which belongs to the transport. The watcher exits when
// ctx is done.
func WatchParent(ctx context.Context, cancel context.CancelFunc) {
	watchParent(ctx, cancel, os.Getppid)
}

func watchParent(ctx context.Context, cancel context.CancelFunc, getppid func() int) {
	ppid := getppid()
	ticker := time.NewTicker(ParentPollInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if getppid() != ppid {
					logging.New("mcp").Warn("parent process exited, shutting down", "ppid", ppid)
					cancel()
					return
				}
			}
		}
	}()
}
