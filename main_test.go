package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/reading"
)

const testCatalog = `name,price,copy,element
Ember Gloss,18,Warm red almond set,fire
Gold Leaf,24,Foil accents on nude,metal
Sand Dune,,Matte beige coffin,earth
Silver Line,22,Chrome french tips,metal
Deep Tide,20,Navy chrome stiletto,water
`

type testEnv struct {
	app     *app
	out     *bytes.Buffer
	dir     string
	catalog string
}

func newTestEnv(t *testing.T, stdin string) *testEnv {
	t.Helper()
	for _, key := range []string{"FORTUNE_CATALOG", "FORTUNE_DATABASE_URL", "DATABASE_URL", "FORTUNE_LANG", "FORTUNE_OUTPUT_DIR"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "styles.csv")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o644))

	out := &bytes.Buffer{}
	return &testEnv{
		app: &app{
			in:     strings.NewReader(stdin),
			out:    out,
			now:    func() time.Time { return time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC) },
			logger: zaptest.NewLogger(t),
		},
		out:     out,
		dir:     dir,
		catalog: catalogPath,
	}
}

func (e *testEnv) execute(args ...string) error {
	base := []string{
		"--config", filepath.Join(e.dir, "missing.yaml"),
		"--catalog", e.catalog,
	}
	cmd := newRootCmd(e.app)
	cmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	return cmd.Execute()
}

func readSession(t *testing.T, outDir string) (reading.Result, string) {
	t.Helper()
	jsonFiles, err := filepath.Glob(filepath.Join(outDir, "session_*.json"))
	require.NoError(t, err)
	require.Len(t, jsonFiles, 1)

	data, err := os.ReadFile(jsonFiles[0])
	require.NoError(t, err)
	var res reading.Result
	require.NoError(t, json.Unmarshal(data, &res))

	md, err := os.ReadFile(strings.TrimSuffix(jsonFiles[0], ".json") + ".md")
	require.NoError(t, err)
	return res, string(md)
}

func TestRunWritesSession(t *testing.T) {
	env := newTestEnv(t, "")
	outDir := filepath.Join(env.dir, "outputs")

	err := env.execute("run", "--name", "Serena", "--dob", "1995-04-12", "--target", "2025-09", "--goal", "wealth", "--out", outDir)
	require.NoError(t, err)

	res, md := readSession(t, outDir)
	assert.Equal(t, "Serena", res.Name)
	assert.Equal(t, element.Metal, res.MonthElement)
	assert.Equal(t, element.Set{element.Metal, element.Earth}, res.ElementsConsidered)
	require.Len(t, res.Picks, 3)
	assert.Equal(t, "Gold Leaf", res.Picks[0].Name)
	assert.Equal(t, "Sand Dune", res.Picks[1].Name)
	assert.Equal(t, "Silver Line", res.Picks[2].Name)
	assert.Equal(t, 90, res.Score)
	assert.Len(t, res.Suggestions, 3)

	assert.Contains(t, md, "Overall score: 90/100")
	assert.Contains(t, env.out.String(), "Saved: ")
	assert.Contains(t, env.out.String(), "session_20250901_080000.json")
}

func TestRunMeihuaInChinese(t *testing.T) {
	env := newTestEnv(t, "")
	outDir := filepath.Join(env.dir, "out")

	err := env.execute("run", "--lang", "cn", "--method", "meihua", "--nums", "2,9,8", "--target", "2025-11", "--goal", "career", "--picks", "2", "--out", outDir)
	require.NoError(t, err)

	res, md := readSession(t, outDir)
	assert.Equal(t, reading.Meihua, res.Method)
	assert.Equal(t, []int{2, 9, 8}, res.Nums)
	assert.Equal(t, element.Earth, res.AuxElement)
	assert.Nil(t, res.DOB)
	assert.Len(t, res.Picks, 2)
	assert.Contains(t, md, "你的简要解读")
	assert.Contains(t, md, "为你精选的 2 款")
	assert.Contains(t, env.out.String(), "已保存")
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"goal", []string{"run", "--goal", "fame"}, `invalid goal "fame"`},
		{"method", []string{"run", "--goal", "love", "--method", "tarot"}, `invalid method "tarot"`},
		{"picks", []string{"run", "--goal", "love", "--picks", "-1"}, "picks must be >= 1"},
		{"lang", []string{"run", "--goal", "love", "--lang", "fr"}, `unsupported lang "fr"`},
		{"missing goal", []string{"run"}, `"goal" not set`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			err := env.execute(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunMissingCatalog(t *testing.T) {
	env := newTestEnv(t, "")
	env.catalog = filepath.Join(env.dir, "nope.csv")

	err := env.execute("run", "--goal", "love", "--out", filepath.Join(env.dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog from csv:")
}

func TestQuizWritesSession(t *testing.T) {
	env := newTestEnv(t, "\nSerena\n1\n1995-04-12\n\n2025-09\nwealth\n")
	outDir := filepath.Join(env.dir, "outputs")
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "fortune.yaml"), []byte("output:\n  dir: "+outDir+"\n  picks: 3\n"), 0o644))

	cmd := newRootCmd(env.app)
	cmd.SetArgs([]string{"quiz", "--config", filepath.Join(env.dir, "fortune.yaml"), "--catalog", env.catalog})
	require.NoError(t, cmd.Execute())

	res, _ := readSession(t, outDir)
	assert.Equal(t, element.Wealth, res.Goal)
	assert.Equal(t, 90, res.Score)
	assert.Contains(t, env.out.String(), "Great, generating your reading...")
}

func TestQuizEndOfInput(t *testing.T) {
	env := newTestEnv(t, "en\nSerena\n")
	err := env.execute("quiz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiz:")
}

func TestConfigInitAndShow(t *testing.T) {
	env := newTestEnv(t, "")
	path := filepath.Join(env.dir, "fortune.yaml")

	cmd := newRootCmd(env.app)
	cmd.SetArgs([]string{"config", "init", "--config", path, "--lang", "cn"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, env.out.String(), "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lang: cn")

	cmd = newRootCmd(env.app)
	cmd.SetArgs([]string{"config", "init", "--config", path})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	env.out.Reset()
	cmd = newRootCmd(env.app)
	cmd.SetArgs([]string{"config", "show", "--config", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, env.out.String(), "lang: cn")
	assert.Contains(t, env.out.String(), "picks: 3")
}
