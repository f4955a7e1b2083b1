package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/podhmo/daro/token"
)

// Error is a syntax error at a source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Position returns the offending source range.
func (e *Error) Position() token.Position { return e.Pos }

// ErrorList collects the syntax errors of several files.
type ErrorList []*Error

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	if l[i].Pos.File != l[j].Pos.File {
		return l[i].Pos.File < l[j].Pos.File
	}
	return l[i].Pos.Start < l[j].Pos.Start
}

// Sort orders the list by file and offset.
func (l ErrorList) Sort() { sort.Sort(l) }

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns nil for an empty list and the list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
