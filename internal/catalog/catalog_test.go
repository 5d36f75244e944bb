package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mitay-fortune-quiz/internal/element"
)

const sampleCSV = `name,price,copy,element
Ember Gloss,18,Warm red almond set,fire
Jade Sprout,,Soft green short square,wood
Gold Leaf,24,Foil accents on nude,metal
Sand Dune,16,Matte beige coffin,earth
Deep Tide,20,Navy chrome stiletto,water
Silver Line,22,Minimal chrome stripe,metal
`

func testItems() []Item {
	return []Item{
		{Name: "a", Element: element.Fire},
		{Name: "b", Element: element.Wood},
		{Name: "c", Element: element.Metal},
		{Name: "d", Element: element.Earth},
		{Name: "e", Element: element.Water},
		{Name: "f", Element: element.Metal},
	}
}

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func TestReadCSV(t *testing.T) {
	items, warnings, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, items, 6)
	assert.Equal(t, Item{Name: "Ember Gloss", Price: "18", Copy: "Warm red almond set", Element: element.Fire}, items[0])
	assert.Equal(t, "", items[1].Price)
}

func TestReadCSVHeadersAreCaseInsensitiveAndPriceOptional(t *testing.T) {
	data := "\ufeff Name ,COPY,Element\nRose,Pink ombre,FIRE\n"
	items, warnings, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, items, 1)
	assert.Equal(t, element.Fire, items[0].Element)
	assert.Equal(t, "", items[0].Price)
}

func TestReadCSVWarnings(t *testing.T) {
	data := "name,price,copy,element\n,1,no name,fire\nOnyx,9,Black gloss,stone\nMoss,5,Green,wood\n"
	items, warnings, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, element.Element("stone"), items[0].Element)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "line 2: missing name")
	assert.Contains(t, warnings[1], "line 3: unknown element")
}

func TestReadCSVMissingHeaders(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("name,price\nA,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required headers: copy, element")
}

func TestReadCSVNoRows(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("name,price,copy,element\n"))
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSelectPrefersMatchesInCatalogOrder(t *testing.T) {
	picks := Select(element.Set{element.Metal, element.Earth}, testItems(), 3)
	assert.Equal(t, []string{"c", "d", "f"}, names(picks))
}

func TestSelectPadsWithRemainder(t *testing.T) {
	picks := Select(element.Set{element.Water}, testItems(), 3)
	assert.Equal(t, []string{"e", "a", "b"}, names(picks))

	picks = Select(element.Set{element.Element("stone")}, testItems(), 3)
	assert.Equal(t, []string{"a", "b", "c"}, names(picks))
}

func TestSelectSmallCatalog(t *testing.T) {
	items := testItems()[:2]
	picks := Select(element.Set{element.Wood}, items, 3)
	assert.Equal(t, []string{"b", "a"}, names(picks))

	assert.Empty(t, Select(element.Set{element.Wood}, items, 0))
	assert.Empty(t, Select(element.Set{element.Wood}, nil, 3))
}

func TestSelectKeepsDuplicateRows(t *testing.T) {
	items := []Item{
		{Name: "x", Element: element.Fire},
		{Name: "x", Element: element.Fire},
		{Name: "y", Element: element.Water},
	}
	picks := Select(element.Set{element.Water}, items, 3)
	assert.Equal(t, []string{"y", "x", "x"}, names(picks))
}

func TestSelectTierProperty(t *testing.T) {
	items := testItems()
	for _, favored := range []element.Set{
		{element.Fire},
		{element.Metal, element.Earth},
		{element.Water, element.Wood, element.Fire},
		{element.Earth},
	} {
		for k := 0; k <= len(items)+1; k++ {
			picks := Select(favored, items, k)
			want := k
			if want > len(items) {
				want = len(items)
			}
			require.Len(t, picks, want)

			seenMiss := false
			for _, p := range picks {
				if favored.Contains(p.Element) {
					require.False(t, seenMiss, "match after non-match for %v", favored)
				} else {
					seenMiss = true
				}
			}
		}
	}
}

func TestMatches(t *testing.T) {
	picks := testItems()[:3]
	assert.Equal(t, 2, Matches(element.Set{element.Fire, element.Metal}, picks))
	assert.Equal(t, 0, Matches(element.Set{element.Water}, picks))
}

func TestPostgresQuery(t *testing.T) {
	query, args, err := PostgresSource{}.query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COALESCE(name, ''), COALESCE(price::text, ''), COALESCE(copy, ''), COALESCE(element, '') FROM public.catalog_items ORDER BY position, name", query)
	assert.Empty(t, args)

	query, args, err = PostgresSource{Schema: "mitay", Table: "styles", ActiveOnly: true}.query()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COALESCE(name, ''), COALESCE(price::text, ''), COALESCE(copy, ''), COALESCE(element, '') FROM mitay.styles WHERE active = $1 ORDER BY position, name", query)
	assert.Equal(t, []interface{}{true}, args)
}

func TestPostgresQueryRejectsBadIdentifiers(t *testing.T) {
	_, _, err := PostgresSource{Schema: "public; DROP TABLE x"}.query()
	assert.Error(t, err)
	_, _, err = PostgresSource{Table: "1styles"}.query()
	assert.Error(t, err)
	assert.True(t, ValidIdentifier("catalog_items"))
	assert.False(t, ValidIdentifier("catalog-items"))
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(Options{Path: "data/styles.csv"})
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "data/styles.csv"}, src)
	assert.Equal(t, "csv:data/styles.csv", Describe(src))

	src, err = NewSource(Options{Path: "data/styles.csv", DatabaseURL: "postgres://localhost/mitay", Table: "styles"})
	require.NoError(t, err)
	assert.IsType(t, PostgresSource{}, src)
	assert.Equal(t, "postgres:public.styles", Describe(src))

	_, err = NewSource(Options{})
	assert.Error(t, err)
}

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	items, _, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 6)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = FileSource{Path: path}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostgresSourceLoad(t *testing.T) {
	url := os.Getenv("FORTUNE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FORTUNE_TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	defer db.Close()

	table := fmt.Sprintf("catalog_test_%d", time.Now().UnixNano())
	_, err = db.Exec(`CREATE TABLE public.` + table + ` (
		name text, price numeric, copy text, element text,
		position int NOT NULL, active boolean NOT NULL DEFAULT true)`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec(`DROP TABLE IF EXISTS public.` + table) })

	_, err = db.Exec(`INSERT INTO public.` + table + ` (name, price, copy, element, position, active) VALUES
		('Gold Leaf', 24, 'Foil accents on nude', 'metal', 1, true),
		(NULL, 18, 'Nameless', 'fire', 2, true),
		('Mystery Set', NULL, NULL, NULL, 3, true),
		('Retired', 20, 'Old stock', 'water', 4, false)`)
	require.NoError(t, err)

	items, warnings, err := PostgresSource{URL: url, Table: table, ActiveOnly: true}.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, Item{Name: "Gold Leaf", Price: "24", Copy: "Foil accents on nude", Element: element.Metal}, items[0])
	assert.Equal(t, "Mystery Set", items[1].Name)
	assert.Empty(t, items[1].Price)
	assert.Equal(t, []string{
		"row 2: missing name",
		`row 3: unknown element "" for Mystery Set`,
	}, warnings)
}
