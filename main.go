package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aluedeke/go-deepsign/pkg/codesign"
	"github.com/docopt/docopt-go"
	log "github.com/sirupsen/logrus"
)

const version = "1.0.0"

const usage = `go-deepsign - Recursive macOS Bundle Signing Tool

Signs a bundle and all code nested inside it with a single identity, like
"codesign --deep -fs" but handling bundles with unusual layouts.

Usage:
  go-deepsign plan [--xml | --yaml] <path>
  go-deepsign [-v] [--codesign=<tool>] [--log-file=<file>] <identity> <path>
  go-deepsign -h | --help
  go-deepsign --version

Commands:
  plan      Print the signing order for a bundle without signing anything

Arguments:
  <identity>            Identity used when signing code, same as in codesign(1)
  <path>                Path to the bundle or executable to sign recursively

Options:
  -v --verbose          Enable verbosity
  --codesign=<tool>     Signing tool to run (or DEEPSIGN_CODESIGN env var, default codesign)
  --log-file=<file>     Also write the log to a rotating file (or DEEPSIGN_LOG_FILE env var)
  --xml                 Print the plan as an XML property list (plan command)
  --yaml                Print the plan as YAML (plan command)
  -h --help             Show this help message
  --version             Show version

Environment Variables:
  DEEPSIGN_CODESIGN     Signing tool to run (overridden by --codesign)
  DEEPSIGN_LOG_FILE     Rotating log file (overridden by --log-file)

Examples:
  # Ad-hoc sign an app and everything inside it
  go-deepsign - MyApp.app

  # Sign with a Developer ID, printing every codesign call
  go-deepsign -v "Developer ID Application: Example (ABCDE12345)" MyApp.app

  # Show what would be signed, in order
  go-deepsign plan MyApp.app

  # Same, as YAML for scripting
  go-deepsign plan --yaml MyApp.app
`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	if plan, _ := opts.Bool("plan"); plan {
		if err := runPlan(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runSign(opts); err != nil {
		os.Exit(1)
	}
}

func runSign(opts docopt.Opts) error {
	identity, _ := opts.String("<identity>")
	signPath, _ := opts.String("<path>")
	verbose, _ := opts.Bool("--verbose")
	tool, _ := opts.String("--codesign")
	logPath, _ := opts.String("--log-file")

	cfg, err := loadEnvConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	cfg = cfg.withFlags(tool, logPath)

	logger := newLogger(verbose, cfg.LogFile)

	signer, err := codesign.NewDeepSigner(codesign.Options{
		Identity: identity,
		Signer:   &codesign.CommandSigner{Path: cfg.Codesign, Logger: logger},
		Logger:   logger,
	})
	if err != nil {
		logger.Errorf("Error: %v", err)
		return err
	}

	if err := signer.SignPath(signPath); err != nil {
		reportError(logger, err, verbose)
		return err
	}

	logger.Debugf("Signed %s", signPath)
	return nil
}

// reportError prints err the way the user expects to see it. Diagnostics
// from the signing tool are always shown on failure, but in verbose mode
// they were already logged as they came in.
func reportError(logger *log.Logger, err error, verbose bool) {
	var signErr *codesign.SigningError
	if !errors.As(err, &signErr) {
		logger.Errorf("Error: %v", err)
		return
	}

	if !verbose {
		if output := strings.TrimRight(signErr.Output, "\n"); output != "" {
			logger.Error(output)
		}
	}
	logger.Errorf("Error: Failed to codesign %s", signErr.Path)
}

func runPlan(opts docopt.Opts) error {
	planPath, _ := opts.String("<path>")
	asXML, _ := opts.Bool("--xml")
	asYAML, _ := opts.Bool("--yaml")

	entries, err := codesign.Plan(planPath)
	if err != nil {
		return err
	}

	switch {
	case asXML:
		return codesign.WritePlanXML(os.Stdout, entries)
	case asYAML:
		return codesign.WritePlanYAML(os.Stdout, entries)
	}
	return codesign.WritePlanText(os.Stdout, entries)
}
