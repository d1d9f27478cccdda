package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseArgs_Defaults(t *testing.T) {
	opts, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts != DefaultOptions() {
		t.Errorf("got %+v, want %+v", opts, DefaultOptions())
	}
}

func TestParseArgs_Keywords(t *testing.T) {
	opts, err := ParseArgs([]string{"debug", "length", "55", "hashes", "8", "threads", "4", "algorithm", "sha3-512"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Options{Debug: true, Length: 55, Repetitions: 8, Threads: 4, Algorithm: "sha3-512"}
	if opts != want {
		t.Errorf("got %+v, want %+v", opts, want)
	}
}

func TestParseArgs_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown keyword": {"lenght", "3"},
		"missing value":   {"length"},
		"not a number":    {"threads", "many"},
		"zero":            {"hashes", "0"},
		"negative":        {"length", "-1"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseArgs(args); !errors.Is(err, ErrUsage) {
				t.Errorf("got %v, want ErrUsage", err)
			}
		})
	}
}

func TestReadSeed_StripsLineTerminator(t *testing.T) {
	cases := map[string]string{
		"apple\n":          "apple",
		"apple\r\n":        "apple",
		"apple":            "apple",
		"peanut butter\nx": "peanut butter",
		"":                 "",
	}
	for in, want := range cases {
		got, err := ReadSeed(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadSeed(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ReadSeed(%q) = %q, want %q", in, got, want)
		}
	}
}

func run(args []string, stdin string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_PrintsPassword(t *testing.T) {
	code, out, _ := run(nil, "apple\n")
	if code != ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if want := "<#*6'Y:[tndK3%T`qtD$(C`eIS])]A6?\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRun_ThreadsDoNotChangePassword(t *testing.T) {
	_, single, _ := run([]string{"length", "55", "hashes", "8"}, "foo\n")
	_, multi, _ := run([]string{"length", "55", "hashes", "8", "threads", "3"}, "foo\n")
	if single != multi {
		t.Errorf("single %q != multi %q", single, multi)
	}
	if want := "4i`M~Mf9r7Tk`]N;q6t'lpuN(/~qFC?V9u5&=tMO}4#m!$gBcBZqr<a\n"; single != want {
		t.Errorf("got %q, want %q", single, want)
	}
}

func TestRun_Help(t *testing.T) {
	code, out, _ := run([]string{"help"}, "")
	if code != ExitOK || !strings.HasPrefix(out, "usage:") {
		t.Errorf("code %d, out %q", code, out)
	}
}

func TestRun_BadArgs(t *testing.T) {
	code, out, errOut := run([]string{"colour", "blue"}, "apple\n")
	if code != ExitUsage {
		t.Errorf("exit code %d, want %d", code, ExitUsage)
	}
	if out != "" {
		t.Errorf("unexpected stdout %q", out)
	}
	if !strings.Contains(errOut, "colour is not a valid argument") {
		t.Errorf("stderr %q", errOut)
	}
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	code, _, errOut := run([]string{"algorithm", "md5"}, "apple\n")
	if code != ExitUsage {
		t.Errorf("exit code %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(errOut, "unknown digest algorithm") {
		t.Errorf("stderr %q", errOut)
	}
}

func TestRun_BenchmarkReportsTiming(t *testing.T) {
	code, _, errOut := run([]string{"benchmark"}, "")
	if code != ExitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(errOut, "password derived") || !strings.Contains(errOut, "elapsed") {
		t.Errorf("stderr %q lacks timing event", errOut)
	}
	_, _, quiet := run(nil, "apple\n")
	if quiet != "" {
		t.Errorf("unexpected stderr without benchmark: %q", quiet)
	}
}

func TestRun_OversizedLength(t *testing.T) {
	code, out, errOut := run([]string{"length", "4611686018427387904"}, "apple\n")
	if code != ExitUsage || out != "" {
		t.Errorf("code %d, stdout %q", code, out)
	}
	if !strings.Contains(errOut, "invalid parameter") {
		t.Errorf("stderr %q", errOut)
	}
}

func TestRun_BenchmarkIgnoresStdin(t *testing.T) {
	_, fromStdin, _ := run(nil, BenchmarkSeed+"\n")
	_, bench, _ := run([]string{"benchmark"}, "something else\n")
	if fromStdin != bench {
		t.Errorf("benchmark %q != stdin %q", bench, fromStdin)
	}
}
