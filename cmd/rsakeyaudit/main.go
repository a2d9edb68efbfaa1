// Command rsakeyaudit is the CLI entry point for the two in-scope
// operations of this repository: extracting unique RSA moduli from a
// directory of harvested authorized_keys journals, and auditing a modulus
// list for shared prime factors via batch-GCD.
//
// Usage:
//
//	rsakeyaudit [--quiet] extract --keys-dir <dir> --out <modulus-list> [--exact]
//	rsakeyaudit [--quiet] audit [--workers <k>] <modulus-list>
//
// Global flags (--quiet, --no-color, --version) go before the command name;
// flags after it are parsed by the command.
//
// No environment variables are consulted by either subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flag.CommandLine = flag.NewFlagSet("rsakeyaudit", flag.ContinueOnError)
	flag.CommandLine.SetInterspersed(false)

	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress progress output")
		noColor     = flag.Bool("no-color", false, "Disable colored match output")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
	}

	if err := flag.CommandLine.Parse(args); err != nil {
		return 1
	}

	if *showVersion {
		fmt.Println("rsakeyaudit version dev")
		return 0
	}

	rest := flag.Args()
	if len(rest) == 0 {
		flag.Usage()
		return 1
	}

	log := newLogger(*quiet)

	switch rest[0] {
	case "extract":
		return runExtract(rest[1:], log, *quiet)
	case "audit":
		return runAudit(rest[1:], log, *quiet, *noColor)
	default:
		fmt.Fprintf(os.Stderr, "rsakeyaudit: unknown command %q\n", rest[0])
		flag.Usage()
		return 1
	}
}

func newLogger(quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

const usageText = `rsakeyaudit - RSA modulus extraction and batch-GCD auditing

Usage:
  rsakeyaudit [global options] extract --keys-dir <dir> --out <modulus-list> [--exact]
  rsakeyaudit [global options] audit [--workers <k>] <modulus-list>

Commands:
  extract   Parse ssh-rsa keys out of a journal directory, write unique moduli
  audit     Run batch-GCD over a modulus list, print shared-factor matches

Global Options:
  -q, --quiet       Suppress progress output
      --no-color    Disable colored match output
  -V, --version     Show version and exit

For detailed command help: rsakeyaudit <command> --help
`
