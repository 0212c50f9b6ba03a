package protocol

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	wordCode
	remainderCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	wordToken       = parsly.NewToken(wordCode, "Word", newWordMatcher())
	remainderToken  = parsly.NewToken(remainderCode, "Remainder", newRemainderMatcher())
)

func newWordMatcher() parsly.Matcher {
	return &wordMatcher{}
}

func newRemainderMatcher() parsly.Matcher {
	return &remainderMatcher{}
}

// wordMatcher matches a run of non-whitespace characters.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if isSpace(input[i]) {
			break
		}
		matched++
	}
	return matched
}

// remainderMatcher captures everything up to the end of the line.
type remainderMatcher struct{}

func (m *remainderMatcher) Match(cursor *parsly.Cursor) int {
	return cursor.InputSize - cursor.Pos
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
