// Package oplog reads and writes operation logs in their text form.
//
// A single operation is written as one of
//
//	color [id] [r, g, b, a]
//	cut [id] [x, y]
//	cut [id] [X] [x]
//	cut [id] [Y] [y]
//	swap [id1] [id2]
//	merge [id1] [id2]
//
// An improvement line joins a score and the operations with "|".
package oplog

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// ErrSyntax indicates text that is not a valid operation or log.
var ErrSyntax = errors.New("oplog: syntax error")

var (
	colorRe    = regexp.MustCompile(`^color\s*\[([^\]\s]+)\]\s*\[\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\]$`)
	pointCutRe = regexp.MustCompile(`^cut\s*\[([^\]\s]+)\]\s*\[\s*(-?\d+)\s*,\s*(-?\d+)\s*\]$`)
	lineCutRe  = regexp.MustCompile(`^cut\s*\[([^\]\s]+)\]\s*\[\s*([XxYy])\s*\]\s*\[\s*(-?\d+)\s*\]$`)
	pairRe     = regexp.MustCompile(`^(swap|merge)\s*\[([^\]\s]+)\]\s*\[([^\]\s]+)\]$`)
)

// ParseOperation parses the text form of a single operation.
func ParseOperation(s string) (model.Operation, error) {
	s = strings.TrimSpace(s)

	if m := colorRe.FindStringSubmatch(s); m != nil {
		var ch [4]uint8
		for i := range ch {
			v, err := strconv.ParseUint(m[i+2], 10, 8)
			if err != nil {
				return model.Operation{}, fmt.Errorf("%w: color channel %q out of range in %q", ErrSyntax, m[i+2], s)
			}
			ch[i] = uint8(v)
		}
		return model.Recolor(m[1], model.RGBA(ch[0], ch[1], ch[2], ch[3])), nil
	}

	if m := pointCutRe.FindStringSubmatch(s); m != nil {
		x, errX := strconv.Atoi(m[2])
		y, errY := strconv.Atoi(m[3])
		if errX != nil || errY != nil {
			return model.Operation{}, fmt.Errorf("%w: bad point in %q", ErrSyntax, s)
		}
		return model.PointCut(m[1], model.Point{X: x, Y: y}), nil
	}

	if m := lineCutRe.FindStringSubmatch(s); m != nil {
		v, err := strconv.Atoi(m[3])
		if err != nil {
			return model.Operation{}, fmt.Errorf("%w: bad coordinate in %q", ErrSyntax, s)
		}
		if strings.EqualFold(m[2], "X") {
			return model.VerticalCut(m[1], v), nil
		}
		return model.HorizontalCut(m[1], v), nil
	}

	if m := pairRe.FindStringSubmatch(s); m != nil {
		if m[1] == "swap" {
			return model.Swap(m[2], m[3]), nil
		}
		return model.Merge(m[2], m[3]), nil
	}

	return model.Operation{}, fmt.Errorf("%w: unrecognized operation %q", ErrSyntax, s)
}

// FormatLine returns the improvement line of a result: the score followed
// by every operation, separated by "|".
func FormatLine(r model.Result) string {
	if len(r.Log) == 0 {
		return strconv.FormatInt(r.Score, 10)
	}
	return strconv.FormatInt(r.Score, 10) + "|" + r.Log.String()
}

// ParseLine parses an improvement line written by FormatLine.
func ParseLine(line string) (int64, model.Log, error) {
	fields := strings.Split(strings.TrimSpace(line), "|")
	score, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: bad score %q", ErrSyntax, fields[0])
	}
	log := make(model.Log, 0, len(fields)-1)
	for i, f := range fields[1:] {
		op, err := ParseOperation(f)
		if err != nil {
			return 0, nil, fmt.Errorf("operation %d: %w", i, err)
		}
		log = append(log, op)
	}
	return score, log, nil
}

// FormatSolution writes a log with one operation per line.
func FormatSolution(log model.Log) string {
	var b strings.Builder
	for _, op := range log {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseSolution reads a log in either of its text forms: one operation per
// line, or the last improvement line of a search output. Blank lines and
// lines starting with "#" are ignored.
func ParseSolution(text string) (model.Log, error) {
	var log model.Log
	var last string
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, "|") || isScore(line) {
			last = line
			continue
		}
		op, err := ParseOperation(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		log = append(log, op)
	}

	if last != "" {
		if len(log) > 0 {
			return nil, fmt.Errorf("%w: improvement lines mixed with operation lines", ErrSyntax)
		}
		_, parsed, err := ParseLine(last)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	}
	return log, nil
}

func isScore(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// Writer prints improvement lines, one per reported result.
type Writer struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewWriter returns a Writer printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Improved writes the improvement line of r. Write errors are kept and
// returned by Err.
func (w *Writer) Improved(r model.Result) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintln(w.w, FormatLine(r))
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
