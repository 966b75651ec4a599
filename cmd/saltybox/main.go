package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/awnumar/memguard"
	"github.com/saylorsolutions/saltybox/cmd/internal"
	"github.com/saylorsolutions/saltybox/pkg/fileops"
	"github.com/saylorsolutions/saltybox/pkg/preader"
	"github.com/saylorsolutions/saltybox/pkg/saltyerr"
	flag "github.com/spf13/pflag"
)

const envPassphraseStdin = "SALTYBOX_PASSPHRASE_STDIN"

var version = "dev"

var errHelp = errors.New("help requested")

func main() {
	memguard.CatchInterrupt()
	code := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	memguard.Purge()
	os.Exit(code)
}

type command struct {
	name    string
	alias   string
	summary string
	input   string
	output  string
	exec    func(c *fileops.Codec, input, output string, pr preader.PassphraseReader) error

	// Errors name the output path rather than the input path.
	namesOutput bool
}

var commands = []command{
	{
		name:    "encrypt",
		alias:   "e",
		summary: "Encrypt a file.",
		input:   "Path to the plaintext input file.",
		output:  "Path to write the encrypted output to.",
		exec:    (*fileops.Codec).EncryptFile,
	},
	{
		name:    "decrypt",
		alias:   "d",
		summary: "Decrypt a file.",
		input:   "Path to the encrypted input file.",
		output:  "Path to write the decrypted output to.",
		exec:    (*fileops.Codec).DecryptFile,
	},
	{
		name:    "update",
		alias:   "u",
		summary: "Update an encrypted file with new plaintext, requiring the existing passphrase.",
		input:   "Path to the new plaintext input file.",
		output:  "Path to the existing encrypted file, which will be replaced.",
		exec:    (*fileops.Codec).UpdateFile,

		namesOutput: true,
	},
}

func lookupCommand(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name || cmd.alias == name {
			return cmd, true
		}
	}
	return command{}, false
}

// globalFlags may be given before or after the command.
type globalFlags struct {
	verbose   bool
	passStdin bool
}

func (g *globalFlags) flagSet() *flag.FlagSet {
	flags := flag.NewFlagSet("global", flag.ContinueOnError)
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log the stages of each operation to stderr. Secrets are never logged.")
	flags.BoolVar(&g.passStdin, "passphrase-stdin", false, "Read the passphrase from stdin instead of prompting on the terminal. The entire input is used verbatim, including any trailing newline. Setting "+envPassphraseStdin+"=1 has the same effect.")
	return flags
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	var (
		helpFlag    bool
		versionFlag bool
		globals     globalFlags
	)
	globalSet := globals.flagSet()
	flags := flag.NewFlagSet("saltybox", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SetInterspersed(false)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.BoolVar(&versionFlag, "version", false, "Prints the version of saltybox.")
	flags.AddFlagSet(globalSet)
	flags.Usage = func() {
		usage(stderr, flags)
	}
	if err := flags.Parse(args); err != nil {
		flags.Usage()
		return internal.Failed(stderr, saltyerr.Wrap(saltyerr.User, "", "failed to parse flags", err))
	}
	if helpFlag {
		flags.Usage()
		return 0
	}
	if versionFlag {
		internal.Echo(stdout, "saltybox %s", version)
		return 0
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return internal.Failed(stderr, saltyerr.New(saltyerr.User, "a command is required"))
	}

	cmd, ok := lookupCommand(flags.Arg(0))
	if !ok {
		flags.Usage()
		return internal.Failed(stderr, saltyerr.New(saltyerr.User, fmt.Sprintf("unknown command %q", flags.Arg(0))))
	}
	input, output, err := parseCommand(cmd, flags.Args()[1:], globalSet, stderr)
	if errors.Is(err, errHelp) {
		return 0
	}
	if err != nil {
		return internal.Failed(stderr, err)
	}

	log := internal.NewLogger(stderr, globals.verbose)
	codec, err := fileops.New(fileops.WithLogger(log))
	if err != nil {
		return internal.Failed(stderr, err)
	}
	var pr preader.PassphraseReader = &preader.Terminal{In: stdin, Out: stderr}
	if globals.passStdin || os.Getenv(envPassphraseStdin) == "1" {
		pr = preader.NewReader(stdin)
	}

	log.WithField("command", cmd.name).Debug("running command")
	if err := cmd.exec(codec, input, output, pr); err != nil {
		log.WithField("category", saltyerr.CategoryOf(err)).Debug("command failed")
		subject := input
		if cmd.namesOutput {
			subject = output
		}
		return internal.Failed(stderr, saltyerr.WithContext(err, fmt.Sprintf("failed to %s %s", cmd.name, subject)))
	}
	return 0
}

func parseCommand(cmd command, args []string, globals *flag.FlagSet, stderr io.Writer) (input, output string, err error) {
	var helpFlag bool
	flags := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&helpFlag, "help", "h", false, "Prints this usage information.")
	flags.StringVarP(&input, "input", "i", "", cmd.input)
	flags.StringVarP(&output, "output", "o", "", cmd.output)
	flags.AddFlagSet(globals)
	flags.Usage = func() {
		internal.Echo(stderr, "USAGE:  saltybox %s -i INPUT -o OUTPUT\n\n%s\n\nFLAGS:\n%s", cmd.name, cmd.summary, flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		flags.Usage()
		return "", "", saltyerr.Wrap(saltyerr.User, "", "failed to parse flags", err)
	}
	switch {
	case helpFlag:
		flags.Usage()
		return "", "", errHelp
	case flags.NArg() > 0:
		return "", "", saltyerr.New(saltyerr.User, fmt.Sprintf("unexpected arguments: %v", flags.Args()))
	case input == "":
		return "", "", saltyerr.New(saltyerr.User, "--input is required")
	case output == "":
		return "", "", saltyerr.New(saltyerr.User, "--output is required")
	}
	return input, output, nil
}

func usage(w io.Writer, flags *flag.FlagSet) {
	_, _ = fmt.Fprintf(w, `
saltybox encrypts and decrypts files with a passphrase.

USAGE:  saltybox [FLAGS] COMMAND -i INPUT -o OUTPUT

COMMANDS:
`)
	for _, cmd := range commands {
		_, _ = fmt.Fprintf(w, "    %-8s (%s)  %s\n", cmd.name, cmd.alias, cmd.summary)
	}
	_, _ = fmt.Fprintf(w, `
FLAGS:
%s
Run 'saltybox COMMAND --help' for the flags of a command.
`, flags.FlagUsages())
}
