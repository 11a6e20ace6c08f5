package markdown

import (
	"strconv"
	"strings"
)

var checkmarks = map[string]bool{
	"✓":  true,
	"✔":  true,
	"✔️": true,
	"✅":  true,
}

// boolCell is true for "yes" (any case) or a checkmark glyph
func boolCell(r row, column string) bool {
	v := strings.TrimSpace(r[column])
	return strings.EqualFold(v, "yes") || checkmarks[v]
}

// intCell parses an all-digit cell, falling back to def
func intCell(r row, column string, def int) int {
	v := strings.TrimSpace(r[column])
	if v == "" {
		return def
	}
	for _, c := range v {
		if c < '0' || c > '9' {
			return def
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// listCell splits a comma separated cell into trimmed, non-empty tokens
func listCell(r row, column string) []string {
	v := strings.TrimSpace(r[column])
	if v == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func textCell(r row, column string) string {
	return strings.TrimSpace(r[column])
}
