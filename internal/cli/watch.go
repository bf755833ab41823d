package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/qiscreen"
)

// RunWatch runs sessions against a bank that is reloaded whenever its file changes. A
// reload abandons the session in progress and starts a fresh one on the new graph.
func RunWatch(ctx context.Context, engine *qiscreen.Engine, c *Console) error {
	changes, err := engine.Watch(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("Starting Watcher", "bank", engine.Name)
	printSystemMessage(c.out, "Watching '%s' for changes.", engine.Name)

	for {
		iterCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() { done <- c.RunSession(iterCtx) }()

		select {
		case <-ctx.Done():
			cancel()
			<-done
			return nil
		case name, ok := <-changes:
			cancel()
			<-done
			if !ok {
				return nil
			}
			fmt.Fprintln(c.out)
			printSystemMessage(c.out, "Change detected in '%s', restarting.", name)
			c.logger.Info("Watcher restarting", "bank", name)
		case err := <-done:
			cancel()
			if err != nil && !errors.Is(err, context.Canceled) {
				if isInterrupted(err) {
					return nil
				}
				c.logger.Error("Runtime error", "err", err)
			}
			printSystemMessage(c.out, "Waiting for changes...")
			select {
			case <-ctx.Done():
				return nil
			case name, ok := <-changes:
				if !ok {
					return nil
				}
				printSystemMessage(c.out, "Change detected in '%s', restarting.", name)
			}
		}
	}
}
