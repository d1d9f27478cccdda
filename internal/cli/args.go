package cli

import (
	"strconv"

	"github.com/pkg/errors"
)

var ErrUsage = errors.New("usage error")

const BenchmarkSeed = "benchmark"

// Options are the parsed command-line keywords.
type Options struct {
	Help        bool
	Benchmark   bool
	Debug       bool
	Length      uint64
	Repetitions uint64
	Threads     uint64
	Algorithm   string
}

func DefaultOptions() Options {
	return Options{
		Length:      32,
		Repetitions: 1,
		Threads:     1,
	}
}

// ParseArgs reads keyword arguments. Numeric keywords take the following
// argument as their value:
//
//	help | benchmark | debug | length N | hashes N | threads N | algorithm NAME
func ParseArgs(args []string) (Options, error) {
	opts := DefaultOptions()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "help":
			opts.Help = true
		case "benchmark":
			opts.Benchmark = true
		case "debug":
			opts.Debug = true
		case "length", "hashes", "threads", "algorithm":
			if i+1 >= len(args) {
				return opts, errors.Wrapf(ErrUsage, "%q needs a value", arg)
			}
			i++
			if err := opts.set(arg, args[i]); err != nil {
				return opts, err
			}
		default:
			return opts, errors.Wrapf(ErrUsage, "%s is not a valid argument", arg)
		}
	}
	return opts, nil
}

func (o *Options) set(key, value string) error {
	if key == "algorithm" {
		o.Algorithm = value
		return nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 {
		return errors.Wrapf(ErrUsage, "%q value %q is not a positive integer", key, value)
	}
	switch key {
	case "length":
		o.Length = n
	case "hashes":
		o.Repetitions = n
	case "threads":
		o.Threads = n
	}
	return nil
}
