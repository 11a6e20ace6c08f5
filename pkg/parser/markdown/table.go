package markdown

import (
	"strings"
)

// tableState is the position of the scanner within one section's table
type tableState int

const (
	// seekingAnchor looks for the "## <Section>" heading
	seekingAnchor tableState = iota
	// expectingColumns waits for the column-header row; blank lines are skipped
	expectingColumns
	// expectingSeparator consumes the single dash separator row
	expectingSeparator
	// readingRows collects data rows until a non-table line
	readingRows
	// finished means the table ended or never started
	finished
)

func (s tableState) String() string {
	switch s {
	case seekingAnchor:
		return "seeking-anchor"
	case expectingColumns:
		return "expecting-columns"
	case expectingSeparator:
		return "expecting-separator"
	case readingRows:
		return "reading-rows"
	default:
		return "finished"
	}
}

// row maps column header text to the trimmed cell text
type row map[string]string

// table is the result of scanning one section
type table struct {
	columns []string
	rows    []row
	dropped int
}

// tableScanner extracts the table that follows one section anchor
type tableScanner struct {
	anchor string
	state  tableState
	table  table
}

func newTableScanner(section string) *tableScanner {
	return &tableScanner{anchor: "## " + section}
}

// scan feeds every line through the state machine and returns the table.
func (s *tableScanner) scan(lines []string) table {
	for _, line := range lines {
		if s.state == finished {
			break
		}
		s.step(line)
	}
	return s.table
}

func (s *tableScanner) step(line string) {
	switch s.state {
	case seekingAnchor:
		if strings.Contains(line, s.anchor) {
			s.state = expectingColumns
		}

	case expectingColumns:
		if strings.TrimSpace(line) == "" {
			return
		}
		if !isTableRow(line) {
			s.state = finished
			return
		}
		s.table.columns = splitCells(line)
		s.state = expectingSeparator

	case expectingSeparator:
		switch {
		case isSeparatorRow(line):
			s.state = readingRows
		case isTableRow(line):
			// Missing separator: the row is data.
			s.state = readingRows
			s.addRow(line)
		default:
			s.state = finished
		}

	case readingRows:
		if !isTableRow(line) {
			s.state = finished
			return
		}
		s.addRow(line)
	}
}

func (s *tableScanner) addRow(line string) {
	cells := splitCells(line)
	if len(cells) != len(s.table.columns) {
		s.table.dropped++
		return
	}
	r := make(row, len(cells))
	for i, col := range s.table.columns {
		r[col] = cells[i]
	}
	s.table.rows = append(s.table.rows, r)
}

// isTableRow reports whether line is a pipe-delimited table line
func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

// isSeparatorRow reports whether line only holds pipes, dashes, colons and
// spaces, with at least one dash
func isSeparatorRow(line string) bool {
	if !isTableRow(line) || !strings.Contains(line, "-") {
		return false
	}
	return strings.Trim(strings.TrimSpace(line), "|-: \t") == ""
}

// splitCells splits a table line into trimmed cells, ignoring the outer pipes
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")

	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
