package ast

import (
	"github.com/pipe01/tagtree/internal/lexer"
)

type Pos lexer.Location

func (p Pos) Position() lexer.Location {
	return lexer.Location(p)
}

type File struct {
	Name  string
	Nodes Forest
}

// Forest is an ordered list of sibling elements.
type Forest []*Element

type Element struct {
	Pos

	Name     string
	Children Forest
}

// Walk calls fn for every element in the forest in document order. Children
// are skipped when fn returns false.
func (f Forest) Walk(fn func(el *Element, depth int) bool) {
	f.walk(fn, 0)
}

func (f Forest) walk(fn func(el *Element, depth int) bool, depth int) {
	for _, el := range f {
		if fn(el, depth) {
			el.Children.walk(fn, depth+1)
		}
	}
}

// Count returns the total number of elements in the forest.
func (f Forest) Count() int {
	n := 0
	f.Walk(func(*Element, int) bool {
		n++
		return true
	})
	return n
}
