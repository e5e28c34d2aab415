// Command chore runs the commands defined in a .chore file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chorelang/chore/internal/ast"
	"github.com/chorelang/chore/internal/cache"
	"github.com/chorelang/chore/internal/chorerr"
	"github.com/chorelang/chore/internal/env"
	"github.com/chorelang/chore/internal/eval"
	"github.com/chorelang/chore/internal/execsink"
	"github.com/chorelang/chore/internal/logging"
	"github.com/chorelang/chore/internal/parser"
	"github.com/chorelang/chore/internal/registry"
)

func main() {
	var (
		file    string
		noColor bool
		debug   bool
		watch   bool
	)

	rootCmd := &cobra.Command{
		Use:           "chore [command...] [-- args...]",
		Short:         "Run commands defined in a .chore file",
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A command path may itself be several words (nested commands
			// are resolved segment by segment, e.g. "docker run"); a literal
			// "--" marks where the path ends and the forwarded argument
			// list for the resolved command begins, per spec.md §6.
			var path, cmdArgs []string
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				path = args[:dash]
				cmdArgs = args[dash:]
			} else {
				path = args
			}
			// Each forwarded argument loses one leading "--", so the
			// command sees "--prod" as "prod".
			for i, a := range cmdArgs {
				cmdArgs[i] = strings.TrimPrefix(a, "--")
			}

			useColor := logging.ShouldUseColor(noColor)
			level := logrus.InfoLevel
			if debug {
				level = logrus.DebugLevel
			}
			log := logging.New(os.Stderr, useColor, level)

			exitCode, err := runOnce(cmd.Context(), file, path, cmdArgs, log)
			if err != nil {
				return err
			}
			if exitCode != 0 {
				cmd.SilenceUsage = true
				return fmt.Errorf("command failed with exit code %d", exitCode)
			}

			if watch {
				return watchAndRerun(cmd.Context(), file, path, cmdArgs, log)
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&file, "file", "f", "commands.chore", "path to the .chore file")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "re-run on every change to the .chore file")

	ctx, cancel := newCancellableContext()
	defer cancel()

	exitCode := 0
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = 1
	}
	os.Exit(exitCode)
}

func newCancellableContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

// runOnce loads file (from cache when unchanged), resolves path against
// its command registry, and evaluates it once.
func runOnce(ctx context.Context, file string, path, args []string, log *logrus.Logger) (int, error) {
	prog, err := loadProgram(file, log)
	if err != nil {
		return 1, err
	}

	tree := registry.Build(prog)
	evaluator := eval.New(tree, execsink.LocalSink{}, log)

	if len(path) == 0 {
		// Script mode: run every top-level command in declaration order.
		code := 0
		for _, c := range prog.Commands {
			sum, err := evaluator.Run(ctx, env.New(), []string{c.Name}, nil)
			if err != nil {
				logging.Error(log, c.Name, err)
				return 1, err
			}
			code = sum.ExitCode
		}
		return code, nil
	}

	sum, err := evaluator.Run(ctx, env.New(), path, args)
	if err != nil {
		logging.Error(log, registry.PathString(path), err)
		if ce, ok := err.(*chorerr.Error); ok {
			return 1, fmt.Errorf("%s", ce.Error())
		}
		return 1, err
	}
	return sum.ExitCode, nil
}

func loadProgram(file string, log *logrus.Logger) (*ast.Program, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}

	cacheDir, err := cache.DefaultDir()
	var store *cache.Store
	if err == nil {
		store, _ = cache.Open(cacheDir)
	}

	key := cache.Key(src)
	if store != nil {
		if prog, ok := store.Load(key); ok {
			return prog, nil
		}
	}

	cstFile, err := parser.Parse(string(src))
	if err != nil {
		return nil, err
	}
	prog, err := ast.Build(cstFile)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Store(key, prog); err != nil {
			logging.Warn(log, file, "failed to write parse cache: "+err.Error())
		}
	}

	return prog, nil
}

// watchAndRerun re-runs the requested command every time file changes on
// disk, until ctx is cancelled.
func watchAndRerun(ctx context.Context, file string, path, args []string, log *logrus.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !evt.Op.Has(fsnotify.Write) {
				continue
			}
			logging.Warn(log, file, "change detected, re-running "+strings.Join(path, " "))
			if _, err := runOnce(ctx, file, path, args, log); err != nil {
				logging.Error(log, file, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error(log, file, err)
		}
	}
}
