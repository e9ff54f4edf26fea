package typenode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSyntax is returned for text that is not a node tree.
var ErrSyntax = errors.New("invalid type node")

type line struct {
	no    int
	depth int
	text  string
}

// Parse reads the text form produced by Node.String. Blank lines are
// ignored; a child must be indented exactly one tab deeper than its parent.
func Parse(text string) (*Node, error) {
	var lines []line

	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		body := strings.TrimLeft(raw, "\t")
		lines = append(lines, line{no: i + 1, depth: len(raw) - len(body), text: body})
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty text", ErrSyntax)
	}

	p := &parser{lines: lines}

	n, err := p.node(0)
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.lines) {
		return nil, fmt.Errorf("%w: line %d: more than one root", ErrSyntax, p.lines[p.pos].no)
	}

	return n, nil
}

type parser struct {
	lines []line
	pos   int
}

func (p *parser) node(depth int) (*Node, error) {
	l := p.lines[p.pos]
	if l.depth != depth {
		return nil, fmt.Errorf("%w: line %d: expected depth %d, got %d", ErrSyntax, l.no, depth, l.depth)
	}

	p.pos++

	n, err := parseLine(l)
	if err != nil {
		return nil, err
	}

	for p.pos < len(p.lines) && p.lines[p.pos].depth > depth {
		arg, err := p.node(depth + 1)
		if err != nil {
			return nil, err
		}

		n.Args = append(n.Args, arg)
	}

	if n.IsArray() && len(n.Args) != 1 {
		return nil, fmt.Errorf("%w: line %d: array needs exactly one element, got %d", ErrSyntax, l.no, len(n.Args))
	}

	return n, nil
}

func parseLine(l line) (*Node, error) {
	if l.text == ArrayMarker {
		return &Node{Name: ArrayMarker}, nil
	}

	fields := strings.Fields(l.text)
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: line %d: want \"module name\", got %q", ErrSyntax, l.no, l.text)
	}

	return &Node{Module: fields[0], Name: fields[1]}, nil
}
