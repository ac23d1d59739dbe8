// Package audit persists per-request decision records so every routing and
// classification outcome can be traced back to the rules that produced it.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zen-systems/waypoint/pkg/profile"
	"github.com/zen-systems/waypoint/pkg/router"
)

// RunRecord captures request-level metadata. The query itself is stored
// only as a hash; the raw text lives in the stage records.
type RunRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	QueryHash string    `json:"query_hash"`
}

// ProfileRecord captures the profiling stage output with its rule hits.
type ProfileRecord struct {
	Query          string                `json:"query"`
	Profile        *profile.QueryProfile `json:"profile"`
	DurationMillis int64                 `json:"duration_ms"`
}

// RouteRecord captures one routing decision.
type RouteRecord struct {
	Decision       *router.Decision `json:"decision"`
	DurationMillis int64            `json:"duration_ms"`
}

// DispatchRecord captures the data-query stage outcome.
type DispatchRecord struct {
	Status         string         `json:"status"`
	Mode           string         `json:"mode"`
	Debug          map[string]any `json:"debug,omitempty"`
	DurationMillis int64          `json:"duration_ms"`
}

// Writer writes one request's audit bundle under baseDir/<requestID>/.
type Writer struct {
	baseDir string
	runDir  string
}

// NewWriter creates an audit writer rooted at baseDir/requestID.
func NewWriter(baseDir, requestID string) (*Writer, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if requestID == "" {
		return nil, fmt.Errorf("request ID is required")
	}

	runDir := filepath.Join(baseDir, requestID)
	if err := os.MkdirAll(filepath.Join(runDir, "stages"), 0755); err != nil {
		return nil, err
	}
	return &Writer{baseDir: baseDir, runDir: runDir}, nil
}

// RunDir returns the request's audit directory.
func (w *Writer) RunDir() string {
	return w.runDir
}

// WriteRun writes request metadata to run.json.
func (w *Writer) WriteRun(record RunRecord) error {
	return writeJSON(filepath.Join(w.runDir, "run.json"), record)
}

// WriteProfile writes the profiling record to stages/profile.json.
func (w *Writer) WriteProfile(record ProfileRecord) error {
	return writeJSON(filepath.Join(w.runDir, "stages", "profile.json"), record)
}

// WriteRoute writes a routing record to stages/route.json.
func (w *Writer) WriteRoute(record RouteRecord) error {
	return writeJSON(filepath.Join(w.runDir, "stages", "route.json"), record)
}

// WriteDispatch writes the data-query record to stages/data_query.json.
func (w *Writer) WriteDispatch(record DispatchRecord) error {
	return writeJSON(filepath.Join(w.runDir, "stages", "data_query.json"), record)
}

// HashQuery returns a short stable hash of the query text.
func HashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])[:16]
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
