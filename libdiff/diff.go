// Package libdiff computes line diffs between renderings of
// configuration values.
package libdiff

import (
	"fmt"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/go-hocon/encode"
	"github.com/signadot/go-hocon/ir"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (op Op) prefix() string {
	switch op {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

func (l Line) String() string { return l.Op.prefix() + l.Text }

// DiffLines diffs from and to line by line.
func DiffLines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, text := range splitLines(d.Text) {
			res = append(res, Line{Op: op, Text: text})
		}
	}
	return res
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Unified renders a diff of from and to in unified format with context
// lines around each change.  Equal inputs give the empty string.
func Unified(from, to, fromName, toName string, context int) string {
	lines := DiffLines(from, to)
	if !Changed(lines) {
		return ""
	}
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "--- %s\n+++ %s\n", fromName, toName)
	for _, h := range hunks(lines, context) {
		h.write(sb)
	}
	return sb.String()
}

type hunk struct {
	fromStart, toStart int
	lines              []Line
}

func (h *hunk) write(sb *strings.Builder) {
	fromLen, toLen := 0, 0
	for _, l := range h.lines {
		if l.Op != Insert {
			fromLen++
		}
		if l.Op != Delete {
			toLen++
		}
	}
	fmt.Fprintf(sb, "@@ -%s +%s @@\n", hunkRange(h.fromStart, fromLen), hunkRange(h.toStart, toLen))
	for _, l := range h.lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
}

// hunkRange follows diff -u: an empty range names the line before it.
func hunkRange(start, n int) string {
	if n == 0 {
		start--
	}
	if n == 1 {
		return fmt.Sprint(start)
	}
	return fmt.Sprintf("%d,%d", start, n)
}

func hunks(lines []Line, context int) []*hunk {
	var res []*hunk
	// 1-based line numbers of lines[i] in from and to
	fromNo := make([]int, len(lines))
	toNo := make([]int, len(lines))
	f, t := 1, 1
	for i, l := range lines {
		fromNo[i], toNo[i] = f, t
		if l.Op != Insert {
			f++
		}
		if l.Op != Delete {
			t++
		}
	}
	i := 0
	for i < len(lines) {
		if lines[i].Op == Equal {
			i++
			continue
		}
		start := max(0, i-context)
		end := i
		// extend while the next change is within reach of the context
		for end < len(lines) {
			if lines[end].Op != Equal {
				end++
				continue
			}
			next := end
			for next < len(lines) && lines[next].Op == Equal {
				next++
			}
			if next < len(lines) && next-end <= 2*context {
				end = next
				continue
			}
			end = min(len(lines), end+context)
			break
		}
		res = append(res, &hunk{
			fromStart: fromNo[start],
			toStart:   toNo[start],
			lines:     lines[start:end],
		})
		i = end
	}
	return res
}

// DiffValues renders from and to with opts and diffs the renderings.
func DiffValues(from, to ir.Value, fromName, toName string, context int, opts ...encode.EncodeOption) (string, error) {
	a, err := encode.Render(from, opts...)
	if err != nil {
		return "", err
	}
	b, err := encode.Render(to, opts...)
	if err != nil {
		return "", err
	}
	return Unified(a, b, fromName, toName, context), nil
}
