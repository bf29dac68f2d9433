package core

import (
	"sort"
	"strings"
)

// MergeNames unions the active roster with every non-blank row name found in
// the week, if one is supplied. Employees who left the roster but still
// appear in historical data stay selectable this way. The result is
// deduplicated by exact string equality and sorted ascending; names are only
// trimmed for blank detection, never normalized.
func MergeNames(active []string, week *Week) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(active))
	add := func(name string) {
		if strings.TrimSpace(name) == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, n := range active {
		add(n)
	}
	if week != nil {
		for _, d := range week.Days {
			for _, r := range d.Rows {
				add(r.Name)
			}
		}
	}
	sort.Strings(out)
	return out
}
