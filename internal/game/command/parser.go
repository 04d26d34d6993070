package command

import "strings"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command, with quotes removed.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
}

// Parse splits a console line into a command and arguments. A double-quoted
// run is one argument; an unterminated quote extends to the end of the line.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	tokens := tokenize(line)
	result := ParseResult{Command: strings.ToLower(tokens[0])}
	if len(tokens) > 1 {
		result.Args = tokens[1:]
	}
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		result.RawArgs = strings.TrimSpace(line[i+1:])
	}
	return result
}

func tokenize(line string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, cur.String())
		}
		cur.Reset()
		started = false
	}
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}
