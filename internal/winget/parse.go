package winget

import (
	"regexp"
	"strings"
)

var (
	// columnSep matches the padding winget uses between columns. Single
	// spaces occur inside names, so only runs of two or more separate.
	columnSep = regexp.MustCompile(`\s{2,}`)
	tabSep    = regexp.MustCompile(`\t+`)
)

// Header tokens for the name and id columns, including the zh-CN locale.
var (
	nameHeaders = []string{"name", "名称"}
	idHeaders   = []string{"id", "标识", "識別碼"}
)

// ParseListing converts the table printed by `winget search` or `winget list`
// into packages. Header and rule lines are skipped, rows are split on runs of
// whitespace (tabs as a fallback), and the first row seen for an id wins.
// Input that contains no table yields an empty slice, never an error.
func ParseListing(text string) []Package {
	packages := []Package{}
	if strings.TrimSpace(text) == "" {
		return packages
	}

	seen := make(map[string]struct{})
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for _, line := range strings.Split(text, "\n") {
		// Progress spinners redraw in place with \r; keep the final frame.
		if i := strings.LastIndexByte(line, '\r'); i >= 0 {
			line = line[i+1:]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isRule(trimmed) {
			continue
		}

		cols := splitColumns(trimmed)
		if len(cols) < 2 || isHeader(cols) {
			continue
		}
		if isSeparator(cols[0]) || isSeparator(cols[1]) {
			continue
		}

		pkg := Package{
			Name:   cols[0],
			ID:     cols[1],
			Source: DefaultSource,
		}
		if len(cols) > 2 {
			pkg.Version = cols[2]
		}
		if len(cols) > 3 {
			// The last column is the source; a "Tag: x" match column may sit
			// between it and the version.
			if last := cols[len(cols)-1]; !strings.Contains(last, ":") {
				pkg.Source = last
			}
		}

		if _, dup := seen[pkg.ID]; dup {
			continue
		}
		seen[pkg.ID] = struct{}{}
		packages = append(packages, pkg)
	}

	return packages
}

// splitColumns splits a row on runs of two or more whitespace characters,
// falling back to tabs when that yields fewer than two columns. Empty
// columns are dropped.
func splitColumns(line string) []string {
	cols := nonEmpty(columnSep.Split(line, -1))
	if len(cols) >= 2 {
		return cols
	}
	return nonEmpty(tabSep.Split(line, -1))
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isRule reports whether line is the dashed rule under the header.
func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	for _, r := range line {
		if r != '-' && r != '─' && r != ' ' {
			return false
		}
	}
	return true
}

func isHeader(cols []string) bool {
	return matchesAny(cols[0], nameHeaders) || matchesAny(cols[1], idHeaders)
}

func matchesAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.EqualFold(s, t) {
			return true
		}
	}
	return false
}

// isSeparator reports whether a column is an artifact of the rule line.
func isSeparator(col string) bool {
	return strings.Contains(col, "---")
}
