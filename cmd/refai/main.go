/*
Refai starts an interactive refa shell.

It reads commands from stdin (via GNU readline when attached to a tty, or
directly otherwise) and lets a user compile patterns, run them against
inputs, and inspect the compiled-pattern cache without leaving a single
session.

Usage:

	refai [flags]

The flags are:

	-v, --version
		Give the current version of refai and then exit.

	--config PATH
		Load configuration from the given TOML file.

	-d, --direct
		Force reading directly from stdin instead of going through GNU
		readline, even if launched in a tty.

	-c, --command COMMANDS
		Immediately run the given command(s) at start. Can be multiple
		commands separated by the ";" character.

Once a session has started, type "help" for a list of commands. To exit,
type "quit".
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/pflag"

	"github.com/dekarrin/refa/internal/cache"
	"github.com/dekarrin/refa/internal/config"
	"github.com/dekarrin/refa/internal/regex"
	"github.com/dekarrin/refa/internal/version"
	"github.com/dekarrin/rosed"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the shell.
	ExitInitError
)

const helpText = `Commands:

compile PATTERN
    Compile PATTERN and cache it, printing the ID it was assigned.

match ID INPUT
    Run INPUT against the pattern previously compiled as ID, printing
    whether it is accepted.

try PATTERN INPUT
    Compile PATTERN, run INPUT against it, and print whether it is
    accepted, without keeping the pattern in the cache under a
    remembered ID.

stats
    Print the number of patterns currently cached and their total
    encoded size.

help
    Print this message.

quit
    Exit the shell.
`

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Give the current version of refai and then exit.")
	flagConfig   = pflag.String("config", "", "Load configuration from the given TOML file.")
	forceDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible.")
	startCommand = pflag.StringP("command", "c", "", "Execute the given commands immediately at start and leave the shell open.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: load config: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	store, err := buildStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: init cache: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer store.Close()

	sh := &shell{store: store, out: os.Stdout}

	var startCommands []string
	if *startCommand != "" {
		startCommands = strings.Split(*startCommand, ";")
	}
	for _, c := range startCommands {
		if err := sh.dispatch(c); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
	}

	rl, err := newLineReader(*forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: init input: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || err == readline.ErrInterrupt {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := sh.dispatch(line); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			fmt.Fprintln(sh.out, err.Error())
		}
	}
}

// lineReader is satisfied by both readline.Instance and a plain bufio-backed
// direct reader, matching the teacher's split between interactive and direct
// command input.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

func newLineReader(direct bool) (lineReader, error) {
	if direct {
		return directReader{r: os.Stdin}, nil
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "refa> "})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return rl, nil
}

type directReader struct {
	r io.Reader
}

func (d directReader) Readline() (string, error) {
	buf := make([]byte, 0, 256)
	b := make([]byte, 1)
	for {
		n, err := d.r.Read(b)
		if n > 0 {
			if b[0] == '\n' {
				return string(buf), nil
			}
			buf = append(buf, b[0])
		}
		if err != nil {
			if len(buf) > 0 {
				return string(buf), nil
			}
			return "", err
		}
	}
}

func (d directReader) Close() error { return nil }

func buildStore(cfg config.Config) (cache.Store, error) {
	switch cfg.CacheDriver {
	case "", "inmem":
		return cache.NewMemStore(), nil
	case "sqlite":
		if err := os.MkdirAll(cfg.CacheDir, 0770); err != nil {
			return nil, fmt.Errorf("build cache directory: %w", err)
		}
		return cache.NewSQLiteStore(cfg.CacheDir)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %q", cfg.CacheDriver)
	}
}

var errQuit = errors.New("quit")

// shell holds the state of one refai session: the compiled-pattern cache and
// the stream commands print results to.
type shell struct {
	store cache.Store
	out   io.Writer
}

// dispatch tokenizes line with shell-style quoting rules and runs the
// resulting command. Returning errQuit ends the session.
func (sh *shell) dispatch(line string) error {
	args, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parse command: %w", err)
	}
	if len(args) == 0 {
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprint(sh.out, rosed.Edit(helpText).Wrap(76).String())
		return nil
	case "stats":
		return sh.cmdStats()
	case "compile":
		return sh.cmdCompile(rest)
	case "match":
		return sh.cmdMatch(rest)
	case "try":
		return sh.cmdTry(rest)
	default:
		return fmt.Errorf("unknown command %q; type \"help\" for a list", cmd)
	}
}

func (sh *shell) cmdCompile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: compile PATTERN")
	}

	entry, err := sh.store.Compile(args[0], regex.Compile)
	if err != nil {
		return err
	}

	fmt.Fprintf(sh.out, "compiled %q as %s\n", entry.Pattern, entry.ID)
	return nil
}

func (sh *shell) cmdMatch(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: match ID INPUT")
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%q is not a valid pattern ID", args[0])
	}

	entry, ok, err := sh.store.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no pattern cached with ID %s; use \"compile\" first", id)
	}

	accepted, err := entry.DFA.Run(args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(sh.out, yesNo(accepted))
	return nil
}

func (sh *shell) cmdTry(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: try PATTERN INPUT")
	}

	entry, err := sh.store.Compile(args[0], regex.Compile)
	if err != nil {
		return err
	}

	accepted, err := entry.DFA.Run(args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(sh.out, yesNo(accepted))
	return nil
}

func (sh *shell) cmdStats() error {
	stats, err := sh.store.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintln(sh.out, stats.String())
	return nil
}

func yesNo(accepted bool) string {
	if accepted {
		return "Yes"
	}
	return "No"
}
