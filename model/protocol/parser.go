package protocol

import (
	"strings"

	"github.com/viant/parsly"
)

// Parse parses a single command line in the format: VERB [arg [value...]].
// An empty or unrecognised verb yields KindUnknown; argument validation
// beyond tokenisation is left to the serving program so that it can answer
// with the protocol's in-band ERROR responses.
func Parse(line string) *Command {
	cursor := parsly.NewCursor("", []byte(line), 0)
	command := &Command{Kind: KindUnknown}

	matched := cursor.MatchAfterOptional(whitespaceToken, wordToken)
	if matched.Code != wordToken.Code {
		return command
	}
	command.Verb = matched.Text(cursor)
	command.Kind = kindOf(command.Verb)

	switch command.Kind {
	case KindSet:
		matched = cursor.MatchAfterOptional(whitespaceToken, wordToken)
		if matched.Code != wordToken.Code {
			return command
		}
		command.Key = matched.Text(cursor)
		matched = cursor.MatchAfterOptional(whitespaceToken, remainderToken)
		if matched.Code == remainderToken.Code {
			command.Value = strings.TrimSpace(matched.Text(cursor))
		}
	case KindGet, KindRelease:
		matched = cursor.MatchAfterOptional(whitespaceToken, wordToken)
		if matched.Code == wordToken.Code {
			command.Key = matched.Text(cursor)
		}
	}
	return command
}
