// Package manifest records what a build pass actually used: inputs, resolved
// plugins, and output shape. Records are persisted to the history store and
// hashable for reproducibility checks.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BuildStatus is the terminal state of a build pass.
type BuildStatus string

const (
	StatusSuccess BuildStatus = "success"
	StatusFailed  BuildStatus = "failed"
)

// BuildRecord is a complete record of one build pass.
type BuildRecord struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	SourceDir string      `json:"source_dir"`
	Inputs    Inputs      `json:"inputs"`
	Plugins   []PluginUse `json:"plugins,omitempty"`
	Outputs   Outputs     `json:"outputs"`
	Status    BuildStatus `json:"status"`
	Error     string      `json:"error,omitempty"`
	Duration  int64       `json:"duration_ms"`
}

// Inputs captures the resolved configuration feeding the build.
type Inputs struct {
	Title      string   `json:"title"`
	PageFormat string   `json:"page_format"`
	Files      []string `json:"files,omitempty"`
	Styles     []string `json:"styles,omitempty"`
	ConfigHash string   `json:"config_hash"`
}

// PluginUse records one resolved plugin in execution order.
type PluginUse struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	Provenance string `json:"provenance"`
	Priority   int    `json:"priority"`
}

// Outputs captures the shape of the assembled artifact.
type Outputs struct {
	SectionCount int    `json:"section_count"`
	StyleBlocks  int    `json:"style_blocks"`
	ContentHash  string `json:"content_hash,omitempty"`
}

// NewRecord starts a build record with a fresh id and timestamp.
func NewRecord(sourceDir string) *BuildRecord {
	return &BuildRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		SourceDir: sourceDir,
	}
}

// ToJSON serializes the record to JSON.
func (r *BuildRecord) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal build record: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a record from JSON.
func FromJSON(data []byte) (*BuildRecord, error) {
	var r BuildRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal build record: %w", err)
	}
	return &r, nil
}

// Hash computes a deterministic hash over inputs and plugins. Two builds with
// the same hash consumed identical configuration and plugin sets.
func (r *BuildRecord) Hash() (string, error) {
	hashInput := struct {
		Inputs  Inputs      `json:"inputs"`
		Plugins []PluginUse `json:"plugins"`
	}{
		Inputs:  r.Inputs,
		Plugins: r.Plugins,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// HashContent returns the sha256 hex digest of arbitrary build content.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}
