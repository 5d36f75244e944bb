package catalog

import (
	"context"
	"errors"
	"strings"
)

var errNoSource = errors.New("catalog path or database url is required")

// Source yields the catalog rows for a run. Rows are read once and not
// modified afterwards.
type Source interface {
	Load(ctx context.Context) ([]Item, []string, error)
}

// FileSource reads a CSV catalog from disk.
type FileSource struct {
	Path string
}

func (f FileSource) Load(ctx context.Context) ([]Item, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return LoadCSV(f.Path)
}

// Options selects and configures a Source.
type Options struct {
	Path        string
	DatabaseURL string
	Schema      string
	Table       string
	ActiveOnly  bool
}

// NewSource prefers the database when a URL is configured.
func NewSource(opts Options) (Source, error) {
	if url := strings.TrimSpace(opts.DatabaseURL); url != "" {
		return PostgresSource{
			URL:        url,
			Schema:     opts.Schema,
			Table:      opts.Table,
			ActiveOnly: opts.ActiveOnly,
		}, nil
	}
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errNoSource
	}
	return FileSource{Path: opts.Path}, nil
}

// Describe names a source for logs.
func Describe(src Source) string {
	switch s := src.(type) {
	case FileSource:
		return "csv:" + s.Path
	case PostgresSource:
		schema, table := s.Schema, s.Table
		if schema == "" {
			schema = DefaultSchema
		}
		if table == "" {
			table = DefaultTable
		}
		return "postgres:" + schema + "." + table
	default:
		return "unknown"
	}
}
