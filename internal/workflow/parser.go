package workflow

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
)

const (
	// maxWorkflowSizeBytes is the maximum allowed size for a workflow file (1MB)
	maxWorkflowSizeBytes = 1 * 1024 * 1024

	// maxControlChars is how many stray control characters are tolerated
	// before content is treated as binary.
	maxControlChars = 10

	// DefaultPattern matches workflow files directly inside the workflows directory.
	DefaultPattern = "*.{yml,yaml}"
)

// ErrInvalidContent is wrapped by every content validation failure.
var ErrInvalidContent = errors.New("invalid workflow content")

// validateWorkflowContent rejects content that cannot be a workflow file.
func validateWorkflowContent(data []byte) error {
	if len(data) > maxWorkflowSizeBytes {
		return fmt.Errorf("%w: exceeds maximum size of %d bytes", ErrInvalidContent, maxWorkflowSizeBytes)
	}

	// Null bytes indicate binary content disguised as YAML
	if bytes.Contains(data, []byte{0x00}) {
		return fmt.Errorf("%w: contains null bytes", ErrInvalidContent)
	}

	controlCount := 0
	for _, b := range data {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' {
			controlCount++
		}
	}
	if controlCount > maxControlChars {
		return fmt.Errorf("%w: contains excessive control characters (%d found)", ErrInvalidContent, controlCount)
	}

	return nil
}

// Decode parses workflow YAML into a generic document. Mappings decode to
// yaml.MapSlice so key order from the source survives. An empty document
// decodes to nil without error.
func Decode(data []byte) (any, error) {
	if err := validateWorkflowContent(data); err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("parsing workflow YAML: %w", err)
	}
	return doc, nil
}

// ParseTriggers decodes workflow text and extracts its triggers, reporting
// whether the text was unusable or simply declared nothing.
func ParseTriggers(data []byte) TriggerResult {
	doc, err := Decode(data)
	if err != nil {
		return TriggerResult{Status: InvalidInput, Events: []TriggerEvent{}, Err: err}
	}
	return resultFor(doc)
}

func resultFor(doc any) TriggerResult {
	events := ExtractTriggers(doc)
	if len(events) == 0 {
		return TriggerResult{Status: NoTriggers, Events: events}
	}
	return TriggerResult{Status: TriggersFound, Events: events}
}

// Inspect decodes workflow text into a Document summary.
func Inspect(data []byte) (*Document, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	d := &Document{Triggers: ExtractTriggers(doc)}
	if entries, ok := mappingEntries(doc); ok {
		for _, entry := range entries {
			if entry.Key == "name" {
				if name, ok := entry.Value.(string); ok {
					d.Name = name
				}
				break
			}
		}
	}
	return d, nil
}

// DiscoverWorkflows finds workflow files in dir matching a doublestar
// pattern (DefaultPattern when empty). Only regular files with .yml or .yaml
// extensions are returned; symlinks are skipped. Results are sorted.
func DiscoverWorkflows(dir, pattern string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("workflows directory cannot be empty")
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid workflow pattern %q", pattern)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading workflows directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workflows path %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching workflows: %w", err)
	}

	var workflows []string
	for _, match := range matches {
		ext := path.Ext(match)
		if ext != ".yml" && ext != ".yaml" {
			continue
		}

		fullPath := filepath.Join(dir, filepath.FromSlash(match))
		fi, err := os.Lstat(fullPath)
		if err != nil || !fi.Mode().IsRegular() {
			// Skip symlinks to prevent path traversal
			continue
		}

		workflows = append(workflows, fullPath)
	}

	sort.Strings(workflows)
	return workflows, nil
}
