package dispatch

import (
	"fmt"
	"strings"
	"testing"
)

func makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{"id": i, "name": fmt.Sprintf("row-%d", i)}
	}
	return rows
}

func TestUnifyFields(t *testing.T) {
	rows := []Row{
		{"b": 1, "a": 2},
		{"c": 3, "a": 4},
		{"d": 5},
	}

	got := UnifyFields(rows, []string{"c", "a"})
	want := []string{"c", "a", "b", "d"}
	if len(got) != len(want) {
		t.Fatalf("UnifyFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UnifyFields() = %v, want %v", got, want)
		}
	}
}

func TestUnifyFields_PreferredKeysAbsentFromRows(t *testing.T) {
	rows := []Row{{"x": 1}}
	got := UnifyFields(rows, []string{"missing", "x"})
	if len(got) != 1 || got[0] != "x" {
		t.Errorf("UnifyFields() = %v, want [x]", got)
	}
}

func TestRenderTable_Truncation(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		wantData   int
		wantNotice bool
	}{
		{name: "under the limit", rows: 10, wantData: 10, wantNotice: false},
		{name: "exactly at the limit", rows: TableRowLimit, wantData: TableRowLimit, wantNotice: false},
		{name: "over the limit", rows: TableRowLimit + 25, wantData: TableRowLimit, wantNotice: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderTable(makeRows(tt.rows), []string{"id", "name"})
			lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

			// Header and separator, then data rows, then maybe a notice.
			wantLines := 2 + tt.wantData
			if tt.wantNotice {
				wantLines++
			}
			if len(lines) != wantLines {
				t.Fatalf("got %d lines, want %d", len(lines), wantLines)
			}

			notice := strings.Contains(out, "truncated")
			if notice != tt.wantNotice {
				t.Errorf("truncation notice present = %v, want %v", notice, tt.wantNotice)
			}
		})
	}
}

func TestRenderTable_EscapesCells(t *testing.T) {
	rows := []Row{{"note": "a|b and `code`"}}
	out := RenderTable(rows, nil)

	if !strings.Contains(out, `a\|b`) {
		t.Errorf("pipe not escaped in %q", out)
	}
	if !strings.Contains(out, "\\`code\\`") {
		t.Errorf("backtick not escaped in %q", out)
	}
}

func TestRenderTable_VaryingFieldSets(t *testing.T) {
	rows := []Row{
		{"id": 1, "name": "a"},
		{"id": 2, "email": "b@example.com"},
	}
	out := RenderTable(rows, []string{"id"})

	header := strings.Split(out, "\n")[0]
	for _, field := range []string{"id", "name", "email"} {
		if !strings.Contains(header, field) {
			t.Errorf("header %q missing field %q", header, field)
		}
	}
	// Missing values render as empty cells, not as a panic or "<nil>".
	if strings.Contains(out, "<nil>") {
		t.Errorf("nil rendered literally in %q", out)
	}
}

func TestRenderFlat_Truncation(t *testing.T) {
	out := RenderFlat(makeRows(FlatRowLimit+1), []string{"id", "name"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header + limit rows + one comment line.
	if len(lines) != 1+FlatRowLimit+1 {
		t.Fatalf("got %d lines, want %d", len(lines), 1+FlatRowLimit+1)
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "#") || !strings.Contains(last, "truncated") {
		t.Errorf("last line %q is not a truncation comment", last)
	}

	within := RenderFlat(makeRows(5), []string{"id", "name"})
	if strings.Contains(within, "truncated") {
		t.Error("unexpected truncation comment for a small row set")
	}
}

func TestRenderEmptyRows(t *testing.T) {
	if got := RenderTable(nil, []string{"id"}); got != "(no rows)" {
		t.Errorf("RenderTable(nil) = %q", got)
	}
	if got := RenderFlat(nil, nil); got != "" {
		t.Errorf("RenderFlat(nil) = %q", got)
	}
}
