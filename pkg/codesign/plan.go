package codesign

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"howett.net/plist"
)

// planIdentity is handed to the recording signer; it never reaches codesign.
const planIdentity = "-"

// PlanEntry is one step of a signing plan.
type PlanEntry struct {
	Path             string `plist:"Path" yaml:"path"`
	Kind             string `plist:"Kind" yaml:"kind"`
	BundleIdentifier string `plist:"CFBundleIdentifier,omitempty" yaml:"bundle_id,omitempty"`
}

// Plan returns the targets SignPath would sign for path, in order, without
// running any signing tool.
func Plan(path string) ([]PlanEntry, error) {
	recorder := &RecordingSigner{}
	signer, err := NewDeepSigner(Options{
		Identity: planIdentity,
		Signer:   recorder,
	})
	if err != nil {
		return nil, err
	}

	if err := signer.SignPath(path); err != nil {
		return nil, err
	}

	entries := make([]PlanEntry, 0, len(recorder.Targets))
	for _, target := range recorder.Targets {
		entry := PlanEntry{
			Path: target.Path,
			Kind: target.Kind.String(),
		}
		if target.Kind == KindBundle {
			// Best effort, malformed bundles often lack an Info.plist
			entry.BundleIdentifier, _ = GetBundleID(target.Path)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// WritePlanText writes one "<kind>\t<path>" line per entry.
func WritePlanText(w io.Writer, entries []PlanEntry) error {
	for _, entry := range entries {
		line := fmt.Sprintf("%s\t%s", entry.Kind, entry.Path)
		if entry.BundleIdentifier != "" {
			line += fmt.Sprintf(" (%s)", entry.BundleIdentifier)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WritePlanXML writes entries as an XML property list array.
func WritePlanXML(w io.Writer, entries []PlanEntry) error {
	data, err := plist.MarshalIndent(entries, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}

// WritePlanYAML writes entries as a YAML sequence.
func WritePlanYAML(w io.Writer, entries []PlanEntry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	_, err = w.Write(data)
	return err
}
