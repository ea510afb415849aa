// Package listing parses the search and ordering query parameters shared by
// the list endpoints.
package listing

import (
	"strings"
)

// Params are the common list query parameters. Ordering takes a
// comma-separated field list where a leading "-" means descending, e.g.
// "-created_at,total_price".
type Params struct {
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
}

// OrderClause turns an ordering expression into an ORDER BY clause. Fields
// maps public field names to columns; unknown fields are dropped and the
// fallback is used when nothing valid remains.
func OrderClause(ordering string, fields map[string]string, fallback string) string {
	var parts []string
	for _, raw := range strings.Split(ordering, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(raw, "-") {
			dir = "DESC"
			raw = raw[1:]
		}
		column, ok := fields[raw]
		if !ok {
			continue
		}
		parts = append(parts, column+" "+dir)
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}

// LikePattern lower-cases term and wraps it for a LIKE match, escaping the
// wildcard characters.
func LikePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
