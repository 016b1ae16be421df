package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stepflow-lang/stepflow/runtime/program"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE [args...]",
		Short: "Re-evaluate a program file whenever its digest changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchProgram(cmd, args[0], args[1:])
		},
	}
}

func watchProgram(cmd *cobra.Command, path string, args []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors commonly replace the file on save, which
	// would drop a watch on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	lastDigest := evaluate(cmd, path, args, "")

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			eventAbs, err := filepath.Abs(event.Name)
			if err != nil || eventAbs != abs {
				continue
			}
			lastDigest = evaluate(cmd, path, args, lastDigest)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

// evaluate runs the program once and returns its digest. Unchanged digests
// skip the run; load or evaluation failures report and keep watching.
func evaluate(cmd *cobra.Command, path string, args []string, lastDigest string) string {
	p, err := program.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return lastDigest
	}
	digest, err := p.Digest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return lastDigest
	}
	if digest == lastDigest {
		return lastDigest
	}

	fmt.Fprintf(cmd.OutOrStdout(), "--- %s\n", digest)
	if err := runProgram(cmd.OutOrStdout(), path, args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	return digest
}
