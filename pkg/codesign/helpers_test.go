package codesign

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const testInfoPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleExecutable</key>
	<string>%s</string>
	<key>CFBundleIdentifier</key>
	<string>%s</string>
</dict>
</plist>`

// writeExecutable creates an executable file (and its parents) below root.
func writeExecutable(t *testing.T, root, rel string) string {
	t.Helper()
	return writeFileMode(t, root, rel, "#!/bin/sh\nexit 0\n", 0755)
}

// writeDataFile creates a non-executable file (and its parents) below root.
func writeDataFile(t *testing.T, root, rel string) string {
	t.Helper()
	return writeFileMode(t, root, rel, "data", 0644)
}

func writeInfoPlist(t *testing.T, root, rel, execName, bundleID string) string {
	t.Helper()
	return writeFileMode(t, root, rel, fmt.Sprintf(testInfoPlistTemplate, execName, bundleID), 0644)
}

func writeFileMode(t *testing.T, root, rel, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	// WriteFile is subject to umask
	if err := os.Chmod(path, mode); err != nil {
		t.Fatal(err)
	}
	return path
}

func mkdir(t *testing.T, root, rel string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

// symlink creates root/rel pointing at target (relative to the link).
func symlink(t *testing.T, root, rel, target string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, path); err != nil {
		t.Fatal(err)
	}
	return path
}

// relPaths makes recorded paths relative to root for readable comparisons.
func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

// newRecordingDeepSigner returns a DeepSigner backed by a RecordingSigner.
func newRecordingDeepSigner(t *testing.T) (*DeepSigner, *RecordingSigner) {
	t.Helper()
	recorder := &RecordingSigner{}
	signer, err := NewDeepSigner(Options{Identity: "-", Signer: recorder})
	if err != nil {
		t.Fatalf("NewDeepSigner: %v", err)
	}
	return signer, recorder
}

// failingSigner records like RecordingSigner but fails when asked to sign
// failPath.
type failingSigner struct {
	RecordingSigner
	failPath string
}

func (f *failingSigner) Sign(target Target, identity string) error {
	_ = f.RecordingSigner.Sign(target, identity)
	if target.Path == f.failPath {
		return &SigningError{Path: target.Path, Output: "simulated failure", Err: fmt.Errorf("exit status 1")}
	}
	return nil
}

// buildNestedApp creates A.app with B.framework (Versions/1 plus a Current
// link) that in turn contains C.bundle.
func buildNestedApp(t *testing.T, root string) string {
	t.Helper()
	app := filepath.Join(root, "A.app")
	writeInfoPlist(t, app, "Contents/Info.plist", "A", "com.example.a")
	writeExecutable(t, app, "Contents/MacOS/A")

	fw := "Contents/Frameworks/B.framework"
	writeExecutable(t, app, fw+"/Versions/1/B")
	writeInfoPlist(t, app, fw+"/Versions/1/Resources/Info.plist", "B", "com.example.b")
	writeInfoPlist(t, app, fw+"/Versions/1/PlugIns/C.bundle/Contents/Info.plist", "C", "com.example.c")
	writeExecutable(t, app, fw+"/Versions/1/PlugIns/C.bundle/Contents/MacOS/C")
	symlink(t, app, fw+"/Versions/Current", "1")
	symlink(t, app, fw+"/B", "Versions/Current/B")
	symlink(t, app, fw+"/Resources", "Versions/Current/Resources")
	return app
}
