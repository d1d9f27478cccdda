package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/seedpass/common/logging"
	"github.com/ykhdr/seedpass/pkg/derive"
)

const usage = `usage: seedpass [help] [benchmark] [debug] [length N] [hashes N] [threads N] [algorithm NAME]

Reads a seed line from standard input and prints the derived password.

  help            print this message
  benchmark       use the seed "benchmark" instead of reading standard input
  debug           log derivation progress to standard error
  length N        password length (default 32)
  hashes N        repetition count per chunk (default 1)
  threads N       worker goroutines (default 1); the password does not depend on it
  algorithm NAME  sha512 (default), blake2b-512 or sha3-512
`

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Run executes the command and returns the process exit code. Logs go to
// stderr; only the password is written to stdout.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n%s", err, usage)
		return ExitUsage
	}
	if opts.Help {
		fmt.Fprint(stdout, usage)
		return ExitOK
	}
	level := logging.WarnLevel
	if opts.Benchmark {
		level = logging.InfoLevel
	}
	if opts.Debug {
		level = logging.DebugLevel
	}
	logging.Setup(level, stderr)

	password, err := derivePassword(opts, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "seedpass: %v\n", err)
		if errors.Is(err, derive.ErrInvalidParameter) || errors.Is(err, derive.ErrUnknownAlgorithm) {
			return ExitUsage
		}
		return ExitFailure
	}
	fmt.Fprintln(stdout, password)
	return ExitOK
}

func derivePassword(opts Options, stdin io.Reader) (string, error) {
	seed := BenchmarkSeed
	if !opts.Benchmark {
		var err error
		if seed, err = ReadSeed(stdin); err != nil {
			return "", err
		}
	}
	algorithm, err := derive.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return "", err
	}
	d, err := derive.New(derive.WithAlgorithm(algorithm), derive.WithLogger(log.Logger))
	if err != nil {
		return "", err
	}
	req, err := derive.NewRequest([]byte(seed), opts.Length, opts.Repetitions, opts.Threads)
	if err != nil {
		return "", err
	}
	start := time.Now()
	password, err := d.Derive(req)
	if err != nil {
		return "", err
	}
	event := log.Debug()
	if opts.Benchmark {
		event = log.Info()
	}
	event.
		Int("password-length", len(password)).
		Uint64("threads", opts.Threads).
		Dur("elapsed", time.Since(start)).
		Msg("password derived")
	return password, nil
}

// ReadSeed returns the first line of r without its line terminator.
func ReadSeed(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read seed")
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
