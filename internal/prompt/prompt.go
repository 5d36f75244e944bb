// Package prompt runs the interactive question flow on a line-oriented
// terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"

	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/messages"
	"mitay-fortune-quiz/internal/reading"
)

// ErrInterrupted is returned when the context is cancelled mid-prompt.
var ErrInterrupted = errors.New("quiz interrupted")

type line struct {
	text string
	err  error
}

// Quiz asks the reading questions one at a time.
type Quiz struct {
	out   io.Writer
	lines chan line
	done  chan struct{}
	lang  messages.Lang
	msgs  messages.Messages
}

// New starts reading lines from in. Call Close when done asking.
func New(in io.Reader, out io.Writer, lang messages.Lang) *Quiz {
	q := &Quiz{
		out:   out,
		lines: make(chan line),
		done:  make(chan struct{}),
	}
	q.setLang(lang)
	go q.readLines(in)
	return q
}

func (q *Quiz) readLines(in io.Reader) {
	defer close(q.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !q.send(line{text: scanner.Text()}) {
			return
		}
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	q.send(line{err: err})
}

func (q *Quiz) send(l line) bool {
	select {
	case q.lines <- l:
		return true
	case <-q.done:
		return false
	}
}

func (q *Quiz) setLang(lang messages.Lang) {
	q.lang = lang
	q.msgs = messages.For(lang)
}

// Lang is the language in effect after the quiz's language question.
func (q *Quiz) Lang() messages.Lang {
	return q.lang
}

func (q *Quiz) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(q.out, question)
	select {
	case <-ctx.Done():
		fmt.Fprintln(q.out)
		return "", ErrInterrupted
	case l, ok := <-q.lines:
		if !ok {
			return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
		}
		if l.err != nil {
			if errors.Is(l.err, io.EOF) {
				return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
			}
			return "", fmt.Errorf("reading answer: %w", l.err)
		}
		return strings.TrimSpace(l.text), nil
	}
}

// Close stops the reader. A reader blocked on a terminal read exits with
// the process.
func (q *Quiz) Close() {
	select {
	case <-q.done:
	default:
		close(q.done)
	}
}

// Run walks through the questions and returns the collected input.
func (q *Quiz) Run(ctx context.Context) (reading.Input, error) {
	var in reading.Input
	fmt.Fprintln(q.out, q.msgs.Welcome)

	raw, err := q.ask(ctx, q.msgs.ChooseLang)
	if err != nil {
		return in, err
	}
	if lang, ok := messages.ParseLang(raw); ok {
		q.setLang(lang)
	}
	in.Lang = q.lang

	if in.Name, err = q.ask(ctx, q.msgs.Name); err != nil {
		return in, err
	}

	for {
		raw, err := q.ask(ctx, q.msgs.Method)
		if err != nil {
			return in, err
		}
		if method, ok := reading.ParseMethod(raw); ok {
			in.Method = method
			break
		}
		fmt.Fprintln(q.out, q.msgs.Invalid)
	}

	if in.Method == reading.Birthdate {
		if in.DOB, err = q.ask(ctx, q.msgs.DOB); err != nil {
			return in, err
		}
		if in.BirthTime, err = q.ask(ctx, q.msgs.BirthTime); err != nil {
			return in, err
		}
	} else {
		raw, err := q.ask(ctx, q.msgs.Nums)
		if err != nil {
			return in, err
		}
		in.Nums = element.ParseNumbers(raw)
	}

	if in.TargetMonth, err = q.ask(ctx, q.msgs.Target); err != nil {
		return in, err
	}

	for {
		raw, err := q.ask(ctx, q.msgs.Goal)
		if err != nil {
			return in, err
		}
		if goal, ok := element.ParseGoal(raw); ok {
			in.Goal = goal
			break
		}
		fmt.Fprintln(q.out, q.msgs.Invalid)
		if guess, ok := ClosestGoal(raw); ok {
			fmt.Fprintln(q.out, messages.Format(q.msgs.DidYouMean, "goal", string(guess)))
		}
	}

	fmt.Fprintln(q.out, q.msgs.Confirm)
	return in, nil
}

// ClosestGoal suggests the goal within two edits of raw, if any.
func ClosestGoal(raw string) (element.Goal, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", false
	}
	best := element.Goal("")
	bestDist := 3
	for _, goal := range element.Goals() {
		dist := levenshtein.ComputeDistance(raw, string(goal))
		if dist < bestDist {
			best, bestDist = goal, dist
		}
	}
	return best, best != ""
}
