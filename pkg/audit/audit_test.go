package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zen-systems/waypoint/pkg/profile"
	"github.com/zen-systems/waypoint/pkg/router"
)

func TestNewWriter_Validation(t *testing.T) {
	if _, err := NewWriter("", "req-1"); err == nil {
		t.Error("NewWriter with empty base dir should fail")
	}
	if _, err := NewWriter(t.TempDir(), ""); err == nil {
		t.Error("NewWriter with empty request ID should fail")
	}
}

func TestWriter_WritesBundle(t *testing.T) {
	base := t.TempDir()
	w, err := NewWriter(base, "req-1")
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	if err := w.WriteRun(RunRecord{
		ID:        "req-1",
		Timestamp: time.Now().UTC(),
		QueryHash: HashQuery("list students"),
	}); err != nil {
		t.Fatalf("WriteRun failed: %v", err)
	}

	p := profile.NewProfiler().Analyze("list students")
	if err := w.WriteProfile(ProfileRecord{Query: "list students", Profile: p}); err != nil {
		t.Fatalf("WriteProfile failed: %v", err)
	}

	if err := w.WriteRoute(RouteRecord{Decision: &router.Decision{
		Router:    "route_query_or_end",
		NextStage: "data_query",
	}}); err != nil {
		t.Fatalf("WriteRoute failed: %v", err)
	}

	if err := w.WriteDispatch(DispatchRecord{Status: "success", Mode: "students"}); err != nil {
		t.Fatalf("WriteDispatch failed: %v", err)
	}

	// run.json round-trips.
	data, err := os.ReadFile(filepath.Join(w.RunDir(), "run.json"))
	if err != nil {
		t.Fatalf("run.json missing: %v", err)
	}
	var run RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatalf("run.json is not valid JSON: %v", err)
	}
	if run.ID != "req-1" {
		t.Errorf("run ID = %q, want req-1", run.ID)
	}

	// The profile record keeps the rule hits for audit.
	data, err = os.ReadFile(filepath.Join(w.RunDir(), "stages", "profile.json"))
	if err != nil {
		t.Fatalf("profile.json missing: %v", err)
	}
	var pr ProfileRecord
	if err := json.Unmarshal(data, &pr); err != nil {
		t.Fatalf("profile.json is not valid JSON: %v", err)
	}
	if pr.Profile == nil || len(pr.Profile.MatchedRules) == 0 {
		t.Error("profile record lost its rule hits")
	}
}

func TestHashQuery_Stable(t *testing.T) {
	a := HashQuery("list students")
	b := HashQuery("list students")
	c := HashQuery("list courses")

	if a != b {
		t.Error("HashQuery is not deterministic")
	}
	if a == c {
		t.Error("different queries should hash differently")
	}
	if len(a) != 16 {
		t.Errorf("hash length = %d, want 16", len(a))
	}
}
