// Command forktale runs a scripted interactive-fiction game file from a
// terminal, using the Recorder console as a stand-in for the GUI widget
// tree the engine's Console interface otherwise targets (spec §6).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forktale/forktale/internal/console"
	"github.com/forktale/forktale/internal/interp"
	"github.com/forktale/forktale/internal/watch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var strict bool
	var printErrors bool
	var watchFlag bool

	cmd := &cobra.Command{
		Use:   "forktale [gameFile] [@forkName]",
		Short: "Play a scripted interactive-fiction game file",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameFile := "game.txt"
			fork := ""
			if len(args) >= 1 {
				gameFile = args[0]
			}
			if len(args) == 2 {
				fork = strings.TrimPrefix(args[1], "@")
			}
			return run(cmd, gameFile, fork, strict, printErrors, watchFlag)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "raise an error instead of silently skipping malformed content")
	cmd.Flags().BoolVar(&printErrors, "print-errors", false, "catch faults at each fork load, clear the screen, and print them instead of exiting")
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "reload the game file automatically whenever it changes on disk")

	return cmd
}

func run(cmd *cobra.Command, gameFile, fork string, strict, printErrors, watchFlag bool) error {
	rec := console.NewRecorder(cmd.OutOrStdout(), cmd.InOrStdin())

	i := interp.New(rec, interp.Options{Strict: strict, PrintErrors: printErrors}, nil)

	if watchFlag {
		w, err := watch.New(gameFile, func() {
			i.ReloadCurrent()
		})
		if err != nil {
			return fmt.Errorf("enabling --watch: %w", err)
		}
		defer w.Close()
	}

	if err := i.LoadFile(gameFile, fork); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := scanner.Text()
		if n, ok := parseOptionChoice(line); ok {
			rec.Click(n)
			continue
		}
		rec.Submit(line)
	}
	return scanner.Err()
}

// parseOptionChoice recognizes a bare integer line as an option click rather
// than submitted free text, matching the Recorder's numbered-option prompt.
func parseOptionChoice(line string) (int, bool) {
	n := 0
	if line == "" {
		return 0, false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
