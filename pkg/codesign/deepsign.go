package codesign

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrInputNotFound is returned by SignPath when the root path does not exist.
	ErrInputNotFound = errors.New("path does not exist")
	// ErrUnsignableInput is returned by SignPath when the root path is
	// neither an executable nor a bundle.
	ErrUnsignableInput = errors.New("path provided is not suitable for being signed")
)

// currentDirectory is the last entry of SigningLocations. It is scanned
// without recursing into plain subdirectories.
const currentDirectory = "."

// SigningLocations are the places inside a bundle directory where nested
// code is expected, mostly from Table 3 of Apple TN2206 plus
// Library/QuickLook. Everything except MacOS and the directory itself comes
// first, so nested code is always signed before the code that loads it.
// Plain subdirectories of every entry but the last are searched as well.
var SigningLocations = []string{
	"Frameworks",
	"PlugIns",
	"XPCServices",
	"Helpers",
	filepath.Join("Library", "QuickLook"),
	filepath.Join("Library", "Automator"),
	filepath.Join("Library", "Spotlight"),
	filepath.Join("Library", "LoginItems"),
	filepath.Join("Library", "LaunchServices"),
	"MacOS",
	currentDirectory,
}

// Options configures a DeepSigner.
type Options struct {
	// Identity is passed to every signing call unchanged, e.g. "-" for ad-hoc
	Identity string
	Signer   Signer
	// Logger receives progress at debug level; nil discards it
	Logger log.FieldLogger
}

// DeepSigner signs a bundle together with everything nested in it, inner
// code first and the enclosing bundle last. The first signing failure stops
// the whole run; nothing already signed is rolled back.
type DeepSigner struct {
	identity string
	signer   Signer
	log      log.FieldLogger
}

// NewDeepSigner validates opts and returns a DeepSigner.
func NewDeepSigner(opts Options) (*DeepSigner, error) {
	if opts.Identity == "" {
		return nil, fmt.Errorf("signing identity is required")
	}
	if opts.Signer == nil {
		return nil, fmt.Errorf("signer is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &DeepSigner{
		identity: opts.Identity,
		signer:   opts.Signer,
		log:      logger,
	}, nil
}

// SignPath signs path, which must be an executable or a bundle.
func (d *DeepSigner) SignPath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	switch {
	case IsExecutableCandidate(path):
		return d.sign(Target{Path: path, Kind: KindExecutable})
	case IsBundleCandidate(path):
		return d.SignBundle(path)
	default:
		return fmt.Errorf("%w: %s", ErrUnsignableInput, path)
	}
}

// SignBundle signs everything inside bundlePath and then the bundle itself.
func (d *DeepSigner) SignBundle(bundlePath string) error {
	contentsPath := filepath.Join(bundlePath, "Contents")
	versionsPath := filepath.Join(bundlePath, "Versions")

	switch {
	case exists(contentsPath):
		// A normal bundle (.app, .xpc, plug-in, ...). Some apps also keep a
		// Versions directory inside Contents, which validation still checks.
		innerVersionsPath := filepath.Join(contentsPath, "Versions")
		if exists(innerVersionsPath) {
			if err := d.SignVersionedDirectory(innerVersionsPath); err != nil {
				return err
			}
		}
		if err := d.SignDirectoryLevel(contentsPath); err != nil {
			return err
		}
	case exists(versionsPath):
		// A framework bundle
		if err := d.SignVersionedDirectory(versionsPath); err != nil {
			return err
		}
	default:
		// Neither Contents nor Versions, but still checked by codesign
		// validation, e.g. some frameworks shipped inside Chrome.
		d.log.Debugf("Bundle %s has no Contents or Versions directory", bundlePath)
		if err := d.SignDirectoryLevel(bundlePath); err != nil {
			return err
		}
	}

	return d.sign(Target{Path: bundlePath, Kind: KindBundle})
}

// SignVersionedDirectory signs every version inside versionsPath, not only
// the one a Current symlink points to. Symlinks are skipped, so Current is
// never treated as a version of its own.
func (d *DeepSigner) SignVersionedDirectory(versionsPath string) error {
	entries, err := os.ReadDir(versionsPath)
	if err != nil {
		return fmt.Errorf("failed to read versions directory %s: %w", versionsPath, err)
	}

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 || !entry.IsDir() {
			continue
		}
		if err := d.SignDirectoryLevel(filepath.Join(versionsPath, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// SignDirectoryLevel signs the code found in SigningLocations below
// directoryPath. Bundles found at this level are signed before executables,
// since a top-level executable may need the bundles next to it to be signed
// first.
//
// Plain subdirectories (e.g. PlugIns/moo/foo.plugin) are handled by a nested
// call as soon as they are found, so their content is signed before the
// bundles and executables collected at this level.
func (d *DeepSigner) SignDirectoryLevel(directoryPath string) error {
	var bundles, executables []string

	for _, location := range SigningLocations {
		locationPath := filepath.Join(directoryPath, location)
		if !isDir(locationPath) {
			continue
		}

		entries, err := os.ReadDir(locationPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", locationPath, err)
		}

		for _, entry := range entries {
			entryPath := filepath.Join(locationPath, entry.Name())
			switch {
			case IsBundleCandidate(entryPath):
				bundles = append(bundles, entryPath)
			case IsExecutableCandidate(entryPath):
				executables = append(executables, entryPath)
			case location != currentDirectory && entry.IsDir():
				if err := d.SignDirectoryLevel(entryPath); err != nil {
					return err
				}
			}
		}
	}

	for _, bundle := range bundles {
		if err := d.SignBundle(bundle); err != nil {
			return err
		}
	}
	for _, executable := range executables {
		if err := d.sign(Target{Path: executable, Kind: KindExecutable}); err != nil {
			return err
		}
	}
	return nil
}

func (d *DeepSigner) sign(target Target) error {
	return d.signer.Sign(target, d.identity)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
