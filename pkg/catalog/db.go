package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	// database/sql drivers for catalog sources.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Flavor selects the schema query used by FromDB.
type Flavor int

// Supported database flavors.
const (
	FlavorSQLite Flavor = iota
	FlavorPostgres
)

func (f Flavor) String() string {
	switch f {
	case FlavorSQLite:
		return "sqlite"
	case FlavorPostgres:
		return "postgres"
	}
	return fmt.Sprintf("Flavor(%d)", int(f))
}

const sqliteColumnsQuery = `SELECT m.name, p.name
FROM sqlite_master AS m
JOIN pragma_table_info(m.name) AS p
WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'
ORDER BY m.name, p.cid`

const postgresColumnsQuery = `SELECT table_name, column_name
FROM information_schema.columns
WHERE table_schema = current_schema()
ORDER BY table_name, ordinal_position`

// FromDB reads every table and column visible to db.
func FromDB(ctx context.Context, db *sql.DB, flavor Flavor) (*Catalog, error) {
	var query string
	switch flavor {
	case FlavorSQLite:
		query = sqliteColumnsQuery
	case FlavorPostgres:
		query = postgresColumnsQuery
	default:
		return nil, fmt.Errorf("unsupported catalog flavor %s", flavor)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s schema: %w", flavor, err)
	}
	defer func() { _ = rows.Close() }()

	c := New(nil)
	for rows.Next() {
		var tableName, column string
		if err := rows.Scan(&tableName, &column); err != nil {
			return nil, fmt.Errorf("failed to scan %s schema row: %w", flavor, err)
		}
		c.add(tableName, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s schema: %w", flavor, err)
	}
	return c, nil
}

// Open loads a catalog from source:
//
//	postgres://... or postgresql://...   PostgreSQL connection URL
//	sqlite:PATH, PATH.db, PATH.sqlite    SQLite database, opened read-only
//	anything else                        YAML file
func Open(ctx context.Context, source string) (*Catalog, error) {
	driver, dsn, flavor, ok := classify(source)
	if !ok {
		return LoadFile(source)
	}

	if flavor == FlavorSQLite {
		if _, err := os.Stat(sqliteFile(dsn)); err != nil {
			return nil, fmt.Errorf("failed to open %s catalog: %w", flavor, err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s catalog: %w", flavor, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s catalog: %w", flavor, err)
	}
	return FromDB(ctx, db, flavor)
}

// classify maps a catalog source to a database/sql driver and DSN. ok is
// false for YAML sources.
func classify(source string) (driver, dsn string, flavor Flavor, ok bool) {
	switch {
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		return "pgx", source, FlavorPostgres, true
	case strings.HasPrefix(source, "sqlite:"):
		return "sqlite", readOnly(strings.TrimPrefix(source, "sqlite:")), FlavorSQLite, true
	case strings.HasSuffix(source, ".db"), strings.HasSuffix(source, ".sqlite"):
		return "sqlite", readOnly(source), FlavorSQLite, true
	}
	return "", "", 0, false
}

// readOnly builds a read-only SQLite URI for path. The driver honors URI
// parameters only behind the file: scheme; without it a missing path is
// silently created.
func readOnly(path string) string {
	path = strings.TrimPrefix(path, "file:")
	file, query, _ := strings.Cut(path, "?")
	if !strings.Contains(query, "mode=") {
		if query != "" {
			query += "&"
		}
		query += "mode=ro"
	}
	return "file:" + file + "?" + query
}

// sqliteFile returns the filesystem path of a DSN built by readOnly.
func sqliteFile(dsn string) string {
	file, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return file
}
