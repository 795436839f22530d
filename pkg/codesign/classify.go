package codesign

import (
	"os"
	"path/filepath"
	"strings"
)

// IsExecutableCandidate reports whether path is a regular (non-symlink,
// non-directory) file the current process is allowed to execute.
//
// Top level files such as Info.plist or PkgInfo are skipped this way.
// Anything that can carry a signature is expected to be marked executable,
// including dylibs and scripts, so the file format is never inspected.
func IsExecutableCandidate(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 || info.IsDir() {
		return false
	}
	return canExecute(path, info)
}

// IsBundleCandidate reports whether path is a real directory whose name has
// an extension, e.g. Foo.app, Bar.framework or Baz.plugin.
//
// Contents and Versions are not required: poorly structured bundles can be
// missing both and are still checked by signature validation.
func IsBundleCandidate(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		return false
	}
	return bundleExtension(filepath.Base(path)) != ""
}

// bundleExtension returns the extension of name without the dot. Leading
// dots do not start an extension, so ".hidden" has none, and neither does
// "foo." since the extension after the dot is empty.
func bundleExtension(name string) string {
	trimmed := strings.TrimLeft(name, ".")
	i := strings.LastIndexByte(trimmed, '.')
	if i < 0 {
		return ""
	}
	return trimmed[i+1:]
}
