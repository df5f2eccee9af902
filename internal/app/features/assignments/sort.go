package assignments

import (
	"sort"

	"github.com/dalemusser/waffle/pantry/text"
)

// sortRoster orders active rows first, then by user and project name
// (case and diacritic insensitive).
func sortRoster(rows []rosterRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.IsActive != b.IsActive {
			return a.IsActive
		}
		if ua, ub := text.Fold(a.UserName), text.Fold(b.UserName); ua != ub {
			return ua < ub
		}
		return text.Fold(a.ProjectName) < text.Fold(b.ProjectName)
	})
}
