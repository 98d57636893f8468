/*
Refa reads a batch of regex/input test cases from standard input and reports
whether each input is accepted, matching spec.md §4.8/§6 byte-for-byte: no
flags are required, and the exit code is always 0 regardless of per-case
compile or simulation errors.

Usage:

	refa [flags]

The flags are:

	-v, --version
		Give the current version of refa and then exit.

	--config PATH
		Load configuration from the given TOML file instead of the default
		search path.

	--cache-dir PATH
		Override the configured compiled-pattern cache directory.

Input format (read from stdin):

	<N>
	<regex_1>
	<input_1>
	...
	<regex_N>
	<input_N>

Output format (written to stdout): one line per test case, `Yes` if the
input is accepted, `No` if rejected, or a single-line error description if
compilation or simulation failed for that case.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/dekarrin/refa/internal/config"
	"github.com/dekarrin/refa/internal/regex"
	"github.com/dekarrin/refa/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInitError indicates a problem reading the input stream itself
	// (not a per-case compile/run error, which never aborts the run).
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of refa and then exit.")
	flagConfig  = pflag.String("config", "", "Load configuration from the given TOML file.")
	flagCache   = pflag.String("cache-dir", "", "Override the configured cache directory.")
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
	if *flagCache != "" {
		cfg.CacheDir = *flagCache
	}

	if err := run(os.Stdin, os.Stdout, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
}

func run(in io.Reader, out io.Writer, cfg config.Config) error {
	r := bufio.NewReader(in)
	w := bufio.NewWriter(out)
	defer w.Flush()

	countLine, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read case count: %w", err)
	}

	n, err := strconv.Atoi(trimEOL(countLine))
	if err != nil {
		return fmt.Errorf("parse case count: %w", err)
	}
	if n < 0 {
		return fmt.Errorf("case count must be non-negative, got %d", n)
	}

	for i := 0; i < n; i++ {
		pattern, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("case %d: read regex: %w", i+1, err)
		}
		input, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("case %d: read input: %w", i+1, err)
		}

		fmt.Fprintln(w, runCase(trimEOL(pattern), trimEOL(input), cfg.VerboseErrors))
	}

	return nil
}

// runCase compiles pattern and runs input through the resulting DFA,
// returning "Yes", "No", or the case's error message. A per-case error never
// aborts the batch.
func runCase(pattern, input string, verbose bool) string {
	d, err := regex.Compile(pattern)
	if err != nil {
		return errString(err, verbose)
	}

	accepted, err := d.Run(input)
	if err != nil {
		return errString(err, verbose)
	}

	if accepted {
		return "Yes"
	}
	return "No"
}

func errString(err error, verbose bool) string {
	if verbose {
		return fmt.Sprintf("%v", err)
	}
	return err.Error()
}

// trimEOL strips a trailing \n and, if present, the \r before it, so input
// works the same whether lines end in \n or \r\n.
func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
