// Package report renders a reading as Markdown, as a terminal summary and as
// the JSON/Markdown file pair written at the end of a session.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mitay-fortune-quiz/internal/messages"
	"mitay-fortune-quiz/internal/reading"
)

const stemLayout = "20060102_150405"

// RenderMarkdown returns the chat-style Markdown report.
func RenderMarkdown(res reading.Result) string {
	m := messages.For(res.Lang)
	var lines []string
	lines = append(lines, fmt.Sprintf("**Chatbot:** %s", m.ResultTitle))
	for _, line := range SummaryLines(res) {
		lines = append(lines, "- "+line)
	}
	lines = append(lines, fmt.Sprintf("**Chatbot:** %s: %d/100", m.Score, res.Score))
	lines = append(lines, "_"+m.ScoreHint+"_")
	lines = append(lines, fmt.Sprintf("**Chatbot:** %s", m.Suggestions))
	for i, tip := range res.Suggestions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, tip))
	}
	lines = append(lines, fmt.Sprintf("**Chatbot:** %s", PicksTitle(res)))
	for i, pick := range res.Picks {
		price := ""
		if pick.Price != "" {
			price = " £" + pick.Price
		}
		lines = append(lines, fmt.Sprintf("%d. **%s**%s — %s _(element: %s)_", i+1, pick.Name, price, pick.Copy, pick.Element))
	}
	lines = append(lines, fmt.Sprintf("**Chatbot:** %s", m.CTA))
	lines = append(lines, fmt.Sprintf("**Chatbot:** %s", m.Closing))
	return strings.Join(lines, "\n") + "\n"
}

// SummaryLines returns the month, goal and meihua lines of the reading with
// Markdown emphasis.
func SummaryLines(res reading.Result) []string {
	m := messages.For(res.Lang)
	lines := []string{
		messages.Format(m.MonthEnergy, "ym", res.TargetMonth, "elem", string(res.MonthElement)),
		messages.Format(m.GoalEnergy, "goal", string(res.Goal), "fav", strings.Join(res.ElementsConsidered.Strings(), ", ")),
	}
	if res.HasAux() {
		lines = append(lines, messages.Format(m.MeihuaEnergy, "extra", string(res.AuxElement)))
	}
	return lines
}

// PlainSummaryLines is SummaryLines without Markdown emphasis.
func PlainSummaryLines(res reading.Result) []string {
	lines := SummaryLines(res)
	for i, line := range lines {
		lines[i] = strings.ReplaceAll(line, "**", "")
	}
	return lines
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	scoreStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// PicksTitle is the localized heading over the picks, counting what was
// actually picked.
func PicksTitle(res reading.Result) string {
	return messages.Format(messages.For(res.Lang).PicksTitle, "n", fmt.Sprint(len(res.Picks)))
}

// RenderTerminal prints a styled summary of the reading.
func RenderTerminal(w io.Writer, res reading.Result) error {
	m := messages.For(res.Lang)
	title := cases.Title(language.English)

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render(m.ResultTitle))
	fmt.Fprintln(&b, strings.Repeat("-", 26))
	for _, line := range PlainSummaryLines(res) {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	fmt.Fprintf(&b, "\n%s %s\n", labelStyle.Render(m.Score+":"), scoreStyle.Render(fmt.Sprintf("%d/100", res.Score)))

	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render(m.Suggestions))
	for i, tip := range res.Suggestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
	}

	fmt.Fprintf(&b, "\n%s\n", titleStyle.Render(PicksTitle(res)))
	for i, pick := range res.Picks {
		price := ""
		if pick.Price != "" {
			price = " | £" + pick.Price
		}
		fmt.Fprintf(&b, "%d. %s%s | %s | %s\n", i+1, pick.Name, price, title.String(string(pick.Element)), pick.Copy)
	}
	fmt.Fprintf(&b, "\n%s\n", labelStyle.Render(m.Closing))

	_, err := io.WriteString(w, b.String())
	return err
}

// MarshalJSON encodes the record the way it is written to disk.
func MarshalJSON(res reading.Result) ([]byte, error) {
	var b strings.Builder
	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(res); err != nil {
		return nil, fmt.Errorf("unable to encode session: %w", err)
	}
	return []byte(b.String()), nil
}

// WriteSession writes session_<timestamp>.json and .md into dir. An existing
// pair with the same timestamp is never overwritten.
func WriteSession(dir string, res reading.Result) (string, string, error) {
	data, err := MarshalJSON(res)
	if err != nil {
		return "", "", err
	}
	md := RenderMarkdown(res)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("unable to create output dir: %w", err)
	}

	stem := "session_" + res.CreatedAt.UTC().Format(stemLayout)
	jsonPath, mdPath := pairPaths(dir, stem)
	if exists(jsonPath) || exists(mdPath) {
		suffix := res.SessionID
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		jsonPath, mdPath = pairPaths(dir, stem+"_"+suffix)
	}

	if err := writeNew(jsonPath, data); err != nil {
		return "", "", err
	}
	if err := writeNew(mdPath, []byte(md)); err != nil {
		return "", "", err
	}
	return jsonPath, mdPath, nil
}

func pairPaths(dir, stem string) (string, string) {
	return filepath.Join(dir, stem+".json"), filepath.Join(dir, stem+".md")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func writeNew(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("unable to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
