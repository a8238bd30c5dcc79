package repositories

import (
	"strings"

	"il2-rankmod/light/internal/models/entities"
)

// selectColumnsQuery builds the per-column select used by RowValues.
// Date-typed columns are read back as text: the sqlite driver would
// otherwise turn them into time.Time and change their stored format when the
// value is written back.
func selectColumnsQuery(cols []entities.PilotColumn) string {
	exprs := make([]string, 0, len(cols))
	for _, c := range cols {
		name := quoteIdent(c.Name)
		if isDateType(c.Type) {
			exprs = append(exprs, "CAST("+name+" AS TEXT) AS "+name)
			continue
		}
		exprs = append(exprs, name)
	}
	return "SELECT " + strings.Join(exprs, ", ") + " FROM pilot WHERE id = ? AND isDeleted = 0"
}

func isDateType(declared string) bool {
	switch strings.ToLower(strings.TrimSpace(declared)) {
	case "date", "datetime", "timestamp":
		return true
	}
	return false
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
