package codesign

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultCodesignPath is the signing tool used when none is configured.
const DefaultCodesignPath = "codesign"

// Kind tells whether a Target is a single file or a whole bundle.
type Kind int

const (
	KindExecutable Kind = iota
	KindBundle
)

func (k Kind) String() string {
	switch k {
	case KindExecutable:
		return "executable"
	case KindBundle:
		return "bundle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Target is a single signable unit handed to a Signer.
type Target struct {
	Path string
	Kind Kind
}

// Signer signs one target with the given identity.
type Signer interface {
	Sign(target Target, identity string) error
}

// SigningError is returned when the signing tool reports a failure.
// Output holds whatever the tool wrote to stdout and stderr.
type SigningError struct {
	Path   string
	Output string
	Err    error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to codesign %s: %v", e.Path, e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// CommandSigner signs by running codesign(1) as "codesign -fs <identity> <path>".
type CommandSigner struct {
	// Path to the codesign binary, DefaultCodesignPath if empty
	Path   string
	Logger log.FieldLogger
}

// Sign runs the signing tool and blocks until it exits. Tool output is
// logged at debug level regardless of the outcome and returned inside a
// *SigningError on failure.
func (s *CommandSigner) Sign(target Target, identity string) error {
	logger := s.Logger
	if logger == nil {
		logger = discardLogger()
	}

	entry := logger.WithField("kind", target.Kind.String())
	if target.Kind == KindBundle {
		if id, err := GetBundleID(target.Path); err == nil {
			entry = entry.WithField("bundle_id", id)
		}
	}
	entry.Debugf("Signing %s", target.Path)

	tool := s.Path
	if tool == "" {
		tool = DefaultCodesignPath
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(tool, "-fs", identity, target.Path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	output := stdout.String() + stderr.String()
	if trimmed := strings.TrimRight(output, "\n"); trimmed != "" {
		logger.Debug(trimmed)
	}

	if runErr != nil {
		return &SigningError{
			Path:   target.Path,
			Output: output,
			Err:    runErr,
		}
	}
	return nil
}

// RecordingSigner records every target in call order without signing
// anything. It backs Plan and is handy as a test double.
type RecordingSigner struct {
	Targets []Target
}

func (r *RecordingSigner) Sign(target Target, _ string) error {
	r.Targets = append(r.Targets, target)
	return nil
}

// Paths returns the recorded target paths in signing order.
func (r *RecordingSigner) Paths() []string {
	paths := make([]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		paths = append(paths, t.Path)
	}
	return paths
}

func discardLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
