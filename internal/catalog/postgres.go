package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"mitay-fortune-quiz/internal/element"
)

const (
	DefaultSchema = "public"
	DefaultTable  = "catalog_items"

	postgresTimeout = 12 * time.Second
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresSource reads catalog rows from a table with the columns
// name, price, copy, element, position and active.
type PostgresSource struct {
	URL        string
	Schema     string
	Table      string
	ActiveOnly bool
}

// Load queries the catalog table ordered by position.
func (p PostgresSource) Load(ctx context.Context) ([]Item, []string, error) {
	query, args, err := p.query()
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("pgx", p.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open catalog database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, postgresTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("unable to reach catalog database: %w", err)
	}
	return queryItems(ctx, db, query, args)
}

func (p PostgresSource) query() (string, []interface{}, error) {
	schema, err := sanitizeIdentifier(p.Schema, DefaultSchema)
	if err != nil {
		return "", nil, err
	}
	table, err := sanitizeIdentifier(p.Table, DefaultTable)
	if err != nil {
		return "", nil, err
	}

	builder := sq.Select(
		"COALESCE(name, '')",
		"COALESCE(price::text, '')",
		"COALESCE(copy, '')",
		"COALESCE(element, '')",
	).
		From(schema + "." + table).
		OrderBy("position", "name").
		PlaceholderFormat(sq.Dollar)
	if p.ActiveOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}
	return builder.ToSql()
}

type rowQueryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryItems(ctx context.Context, db rowQueryer, query string, args []interface{}) ([]Item, []string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to query catalog: %w", err)
	}
	defer rows.Close()

	var items []Item
	var warnings []string
	row := 0
	for rows.Next() {
		row++
		var name, price, copyText, label string
		if err := rows.Scan(&name, &price, &copyText, &label); err != nil {
			return nil, nil, fmt.Errorf("unable to scan catalog row %d: %w", row, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("row %d: missing name", row))
			continue
		}
		elem, known := element.ParseElement(label)
		if !known {
			warnings = append(warnings, fmt.Sprintf("row %d: unknown element %q for %s", row, string(elem), name))
		}
		items = append(items, Item{
			Name:    name,
			Price:   strings.TrimSpace(price),
			Copy:    strings.TrimSpace(copyText),
			Element: elem,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("unable to read catalog rows: %w", err)
	}
	if len(items) == 0 {
		return nil, warnings, ErrNoItems
	}
	return items, warnings, nil
}

func sanitizeIdentifier(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !identifierPattern.MatchString(value) {
		return "", fmt.Errorf("invalid identifier: %s", value)
	}
	return value, nil
}

// ValidIdentifier reports whether value can be used as a schema or table name.
func ValidIdentifier(value string) bool {
	_, err := sanitizeIdentifier(value, "")
	return err == nil
}
