package token

import (
	"fmt"
	"slices"
	"strconv"
)

// PosDoc maps byte offsets of a document to lines and columns.
type PosDoc struct {
	d        []byte
	newlines []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.newlines = append(p.newlines, i)
		}
	}
	return p
}

// LineCol returns the 0-based line and column of off.
func (p *PosDoc) LineCol(off int) (int, int) {
	line, _ := slices.BinarySearch(p.newlines, off)
	if line == 0 {
		return 0, off
	}
	return line, off - p.newlines[line-1] - 1
}

func (p *PosDoc) Pos(off int) *Pos {
	return &Pos{Offset: off, Doc: p}
}

// Pos is an offset into a document.
type Pos struct {
	Offset int
	Doc    *PosDoc
}

// Line is 1-based, as in origins.
func (p *Pos) Line() int {
	l, _ := p.Doc.LineCol(p.Offset)
	return l + 1
}

func (p *Pos) Col() int {
	_, c := p.Doc.LineCol(p.Offset)
	return c
}

func (p Pos) String() string {
	d := p.Doc.d
	near := strconv.Quote(string(d[max(0, p.Offset-5):min(p.Offset+5, len(d))]))
	return fmt.Sprintf("line %d col %d near %s", p.Line(), p.Col(), near)
}
