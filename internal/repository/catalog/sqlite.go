package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/catalog"
	"github.com/kailas-cloud/movierec/internal/logger"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "movies"

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads a catalog from a table in a SQLite database file.
// Rows are read in rowid order, which is insertion order.
type SQLiteSource struct {
	path    string
	table   string
	missing string
}

// NewSQLiteSource creates a SQLite source.
func NewSQLiteSource(path, table, missing string) *SQLiteSource {
	if table == "" {
		table = DefaultTable
	}
	return &SQLiteSource{path: path, table: table, missing: missing}
}

// Load opens the database read-only and reads every row of the table.
func (s *SQLiteSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	if !identRegex.MatchString(s.table) {
		return nil, domain.NewDataSourceError(s.path, fmt.Errorf("invalid table name %q", s.table))
	}
	// The driver would silently create a missing file.
	if _, err := os.Stat(s.path); err != nil {
		return nil, domain.NewDataSourceError(s.path, err)
	}

	db, err := sql.Open("sqlite", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, domain.NewDataSourceError(s.path, fmt.Errorf("open database: %w", err))
	}
	defer func() { _ = db.Close() }()

	cat, err := s.read(ctx, db)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Catalog loaded",
		zap.String("source", "sqlite"),
		zap.String("path", s.path),
		zap.String("table", s.table),
		zap.Int("items", cat.Len()),
	)
	return cat, nil
}

func (s *SQLiteSource) read(ctx context.Context, db *sql.DB) (*catalog.Catalog, error) {
	cols, err := s.columns(ctx, db)
	if err != nil {
		return nil, domain.NewDataSourceError(s.path, err)
	}
	if len(cols) == 0 {
		return nil, domain.NewDataSourceError(s.path, fmt.Errorf("table %q not found", s.table))
	}
	if m := missingColumns(cols); len(m) > 0 {
		return nil, domain.NewMissingColumnsError(s.path, m)
	}

	//nolint:gosec // table name is checked against identRegex
	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s ORDER BY rowid",
		ColumnTitle, ColumnGenres, ColumnOverview, s.table)
	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewDataSourceError(s.path, fmt.Errorf("query %s: %w", s.table, err))
	}
	defer func() { _ = rs.Close() }()

	var rows []row
	for rs.Next() {
		var title, genres, overview sql.NullString
		if err := rs.Scan(&title, &genres, &overview); err != nil {
			return nil, domain.NewDataSourceError(s.path, fmt.Errorf("scan row %d: %w", len(rows)+1, err))
		}
		rows = append(rows, row{
			title:    nullable(title),
			genres:   nullable(genres),
			overview: nullable(overview),
		})
	}
	if err := rs.Err(); err != nil {
		return nil, domain.NewDataSourceError(s.path, fmt.Errorf("iterate rows: %w", err))
	}

	return build(rows, s.missing), nil
}

func (s *SQLiteSource) columns(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rs, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", s.table))
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer func() { _ = rs.Close() }()

	cols := make(map[string]int)
	for rs.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      sql.NullString
			pk        int
		)
		if err := rs.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols[name] = cid
	}
	return cols, rs.Err()
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
