package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/logger"
)

const utf8BOM = "\ufeff"

// CSVSource reads a catalog from a CSV file with a header row.
type CSVSource struct {
	path    string
	missing string
}

// NewCSVSource creates a CSV source. An empty missing value means DefaultMissingValue.
func NewCSVSource(path, missing string) *CSVSource {
	return &CSVSource{path: path, missing: missing}
}

// Load opens the file and parses it.
func (s *CSVSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	f, err := os.Open(filepath.Clean(s.path))
	if err != nil {
		return nil, domain.NewDataSourceError(s.path, err)
	}
	defer func() { _ = f.Close() }()

	cat, err := ParseCSV(s.path, f, s.missing)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Catalog loaded",
		zap.String("source", "csv"),
		zap.String("path", s.path),
		zap.Int("items", cat.Len()),
	)
	return cat, nil
}

// ParseCSV builds a catalog from CSV data. name identifies the source in errors.
// Extra columns are ignored; short rows leave their trailing cells missing.
func ParseCSV(name string, r io.Reader, missing string) (*catalog.Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.NewDataSourceError(name, errors.New("empty file"))
	}
	if err != nil {
		return nil, domain.NewDataSourceError(name, fmt.Errorf("read header: %w", err))
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	if m := missingColumns(cols); len(m) > 0 {
		return nil, domain.NewMissingColumnsError(name, m)
	}

	cell := func(rec []string, col string) *string {
		i := cols[col]
		if i >= len(rec) {
			return nil
		}
		return &rec[i]
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewDataSourceError(name, fmt.Errorf("read row %d: %w", len(rows)+1, err))
		}
		rows = append(rows, row{
			title:    cell(rec, ColumnTitle),
			genres:   cell(rec, ColumnGenres),
			overview: cell(rec, ColumnOverview),
		})
	}

	return build(rows, missing), nil
}
