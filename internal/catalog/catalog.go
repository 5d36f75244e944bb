// Package catalog loads the product catalog and selects picks whose element
// tag overlaps a reading's focus set.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mitay-fortune-quiz/internal/element"
)

// ErrNoItems is returned when a source yields no usable rows.
var ErrNoItems = errors.New("no valid catalog items found")

// Item is one catalog row.
type Item struct {
	Name    string          `json:"name"`
	Price   string          `json:"price"`
	Copy    string          `json:"copy"`
	Element element.Element `json:"element"`
}

var requiredHeaders = []string{"name", "copy", "element"}

// LoadCSV reads a catalog file. Row problems are returned as warnings.
func LoadCSV(path string) ([]Item, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open catalog: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses catalog rows from r.
func ReadCSV(r io.Reader) ([]Item, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	index := mapHeaders(header)

	missing := missingHeaders(requiredHeaders, index)
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required headers: %s", strings.Join(missing, ", "))
	}

	var items []Item
	var warnings []string
	line := 1
	for {
		line++
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		item, warn := parseItem(record, index, line)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if item != nil {
			items = append(items, *item)
		}
	}

	if len(items) == 0 {
		return nil, warnings, ErrNoItems
	}
	return items, warnings, nil
}

func mapHeaders(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		index[key] = i
	}
	return index
}

func missingHeaders(required []string, index map[string]int) []string {
	var missing []string
	for _, key := range required {
		if _, ok := index[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

func parseItem(record []string, index map[string]int, line int) (*Item, string) {
	get := func(key string) string {
		pos, ok := index[key]
		if !ok || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	name := get("name")
	if name == "" {
		return nil, fmt.Sprintf("line %d: missing name", line)
	}

	elem, known := element.ParseElement(get("element"))
	item := &Item{
		Name:    name,
		Price:   get("price"),
		Copy:    get("copy"),
		Element: elem,
	}
	if !known {
		return item, fmt.Sprintf("line %d: unknown element %q for %s", line, string(elem), name)
	}
	return item, ""
}
