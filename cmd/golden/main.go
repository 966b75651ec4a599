package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/saylorsolutions/saltybox/cmd/internal"
	"github.com/saylorsolutions/saltybox/pkg/fileops"
	flag "github.com/spf13/pflag"
)

const defaultVectorFile = "pkg/secretcrypt/testdata/golden-vectors.json"

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var (
		helpFlag    bool
		verboseFlag bool
		fileFlag    string
	)
	flags := flag.NewFlagSet("golden", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "Log timing information to stderr.")
	flags.StringVarP(&fileFlag, "file", "f", defaultVectorFile, "Path of the golden vector file.")
	flags.Usage = func() {
		_, _ = fmt.Fprintf(stderr, `
golden ensures the correctness and compatibility of saltybox format reading and writing. (version %s)

USAGE:  golden [FLAGS] COMMAND

COMMANDS:
    generate  Deterministically generate golden vectors, replacing the vector file.
    validate  Validate every vector in the vector file.

FLAGS:
%s`, version, flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		flags.Usage()
		return internal.Failed(stderr, err)
	}
	if helpFlag {
		flags.Usage()
		return 0
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return internal.Failed(stderr, fmt.Errorf("command is required; use --help to see list of commands"))
	}

	log := internal.NewLogger(stderr, verboseFlag)
	start := time.Now()
	defer func() {
		log.WithField("elapsed", time.Since(start)).Debug("done")
	}()

	switch flags.Arg(0) {
	case "generate":
		if err := generate(fileFlag); err != nil {
			return internal.Failed(stderr, err)
		}
		internal.Echo(stdout, "Wrote golden vectors to %s", fileFlag)
		return 0
	case "validate":
		return validate(fileFlag, stdout, stderr)
	default:
		flags.Usage()
		return internal.Failed(stderr, fmt.Errorf("unknown command %q", flags.Arg(0)))
	}
}

func generate(path string) error {
	vectors, err := generateVectors()
	if err != nil {
		return err
	}
	data, err := encodeVectors(vectors)
	if err != nil {
		return fmt.Errorf("failed to encode golden vectors: %w", err)
	}
	return fileops.WriteAtomic(path, data, 0644)
}

func validate(path string, stdout, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return internal.Failed(stderr, fmt.Errorf("failed to read golden vectors: %w", err))
	}
	var vectors []vector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return internal.Failed(stderr, fmt.Errorf("failed to parse golden vectors: %w", err))
	}

	internal.Echo(stdout, "Validating %d golden vectors...", len(vectors))
	failed := 0
	for i, v := range vectors {
		if err := validateVector(v); err != nil {
			internal.Echo(stdout, "FAIL [%d] %s: %v", i, v.Comment, err)
			failed++
			continue
		}
		internal.Echo(stdout, "PASS [%d] %s", i, v.Comment)
	}
	if failed > 0 {
		return internal.Failed(stderr, fmt.Errorf("%d of %d golden vectors failed", failed, len(vectors)))
	}
	internal.Echo(stdout, "All %d golden vectors passed", len(vectors))
	return 0
}
