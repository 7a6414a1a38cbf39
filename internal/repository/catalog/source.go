// Package catalog loads the movie table from tabular sources into a domain catalog.
package catalog

import (
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
)

// DefaultMissingValue replaces absent or empty cells.
const DefaultMissingValue = "unknown"

// Required column names, in the order they feed combinedText.
const (
	ColumnTitle    = "title"
	ColumnGenres   = "genres"
	ColumnOverview = "overview"
)

var requiredColumns = []string{ColumnTitle, ColumnGenres, ColumnOverview}

// row is one source record before defaulting. A nil field is a missing cell.
type row struct {
	title, genres, overview *string
}

// missingColumns returns the required columns absent from have, in required order.
func missingColumns(have map[string]int) []string {
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := have[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// build replaces missing cells before any text is combined.
func build(rows []row, missing string) *catalog.Catalog {
	if missing == "" {
		missing = DefaultMissingValue
	}
	orDefault := func(v *string) string {
		if v == nil || *v == "" {
			return missing
		}
		return *v
	}

	items := make([]catalog.Item, len(rows))
	for i, r := range rows {
		items[i] = catalog.NewItem(i, orDefault(r.title), orDefault(r.genres), orDefault(r.overview))
	}
	return catalog.New(items)
}
