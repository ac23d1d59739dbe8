package dispatch

import (
	"fmt"
	"strings"
)

// Row bounds for the two renderings. Overflow appends one truncation line.
const (
	TableRowLimit = 50
	FlatRowLimit  = 2000
)

// UnifyFields collects the union of keys across all rows in encounter
// order, then moves keys named in preferred to the front (in preferred
// order). Remaining keys keep first-seen order.
func UnifyFields(rows []Row, preferred []string) []string {
	seen := make(map[string]bool)
	var encounter []string
	for _, row := range rows {
		// Maps iterate in random order, so take preferred keys first
		// and the rest sorted within the row for a stable encounter
		// sequence.
		for _, key := range rowKeys(row, preferred) {
			if !seen[key] {
				seen[key] = true
				encounter = append(encounter, key)
			}
		}
	}

	var fields []string
	used := make(map[string]bool)
	for _, key := range preferred {
		if seen[key] && !used[key] {
			used[key] = true
			fields = append(fields, key)
		}
	}
	for _, key := range encounter {
		if !used[key] {
			used[key] = true
			fields = append(fields, key)
		}
	}
	return fields
}

// RenderTable renders rows as a markdown table bounded to TableRowLimit
// data rows. Cells escape literal pipes and backticks.
func RenderTable(rows []Row, preferred []string) string {
	fields := UnifyFields(rows, preferred)
	if len(fields) == 0 {
		return "(no rows)"
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(fields, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(fields)) + "\n")

	shown := len(rows)
	if shown > TableRowLimit {
		shown = TableRowLimit
	}
	for _, row := range rows[:shown] {
		cells := make([]string, len(fields))
		for i, field := range fields {
			cells[i] = escapeCell(row[field])
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if len(rows) > TableRowLimit {
		sb.WriteString(fmt.Sprintf("... truncated: showing first %d of %d rows\n", TableRowLimit, len(rows)))
	}
	return sb.String()
}

// RenderFlat renders rows as a tab-separated flat file bounded to
// FlatRowLimit data rows, with a comment line noting truncation.
func RenderFlat(rows []Row, preferred []string) string {
	fields := UnifyFields(rows, preferred)
	if len(fields) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(fields, "\t") + "\n")

	shown := len(rows)
	if shown > FlatRowLimit {
		shown = FlatRowLimit
	}
	for _, row := range rows[:shown] {
		cells := make([]string, len(fields))
		for i, field := range fields {
			cells[i] = flatCell(row[field])
		}
		sb.WriteString(strings.Join(cells, "\t") + "\n")
	}
	if len(rows) > FlatRowLimit {
		sb.WriteString(fmt.Sprintf("# truncated: showing first %d of %d rows\n", FlatRowLimit, len(rows)))
	}
	return sb.String()
}

// rowKeys returns one row's keys with preferred keys first and the rest
// in a deterministic order.
func rowKeys(row Row, preferred []string) []string {
	keys := make([]string, 0, len(row))
	for _, key := range preferred {
		if _, ok := row[key]; ok {
			keys = append(keys, key)
		}
	}
	rest := make([]string, 0, len(row))
	inPreferred := make(map[string]bool, len(preferred))
	for _, key := range preferred {
		inPreferred[key] = true
	}
	for key := range row {
		if !inPreferred[key] {
			rest = append(rest, key)
		}
	}
	sortStrings(rest)
	return append(keys, rest...)
}

func sortStrings(s []string) {
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			if s[j] < s[i] {
				s[i], s[j] = s[j], s[i]
			}
		}
	}
}

func escapeCell(v any) string {
	s := cellString(v)
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "\\`")
	return s
}

func flatCell(v any) string {
	s := cellString(v)
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
