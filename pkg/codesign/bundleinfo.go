package codesign

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// ErrNoInfoPlist is returned when a bundle has no Info.plist in any of the
// usual places.
var ErrNoInfoPlist = errors.New("no Info.plist found")

// infoPlistLocations lists where Info.plist lives for the supported bundle
// layouts: app-style Contents, the framework root symlink, the framework
// Versions tree, and finally iOS style or malformed bundles.
var infoPlistLocations = []string{
	filepath.Join("Contents", "Info.plist"),
	filepath.Join("Resources", "Info.plist"),
	filepath.Join("Versions", "Current", "Resources", "Info.plist"),
	"Info.plist",
}

// FindInfoPlist returns the path of the bundle's Info.plist.
func FindInfoPlist(bundlePath string) (string, error) {
	for _, rel := range infoPlistLocations {
		p := filepath.Join(bundlePath, rel)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoInfoPlist, bundlePath)
}

// GetBundleID reads CFBundleIdentifier from the bundle's Info.plist.
func GetBundleID(bundlePath string) (string, error) {
	info, err := readInfoPlist(bundlePath)
	if err != nil {
		return "", err
	}

	bundleID, ok := info["CFBundleIdentifier"].(string)
	if !ok {
		return "", fmt.Errorf("CFBundleIdentifier not found in Info.plist")
	}
	return bundleID, nil
}

func readInfoPlist(bundlePath string) (map[string]interface{}, error) {
	infoPlistPath, err := FindInfoPlist(bundlePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(infoPlistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read Info.plist: %w", err)
	}
	return parseInfoPlist(data)
}

func parseInfoPlist(data []byte) (map[string]interface{}, error) {
	var info map[string]interface{}
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse plist: %w", err)
	}
	return info, nil
}
