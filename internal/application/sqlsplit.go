package application

import (
	"strings"
	"unicode/utf8"
)

// SplitStatements breaks a SQL dump into statements on ';'. Line comments
// ("--" and "#") and block comments are dropped. Semicolons and comment
// markers inside quoted strings or identifiers are kept.
func SplitStatements(dump string) []string {
	statements := make([]string, 0)
	var current strings.Builder

	flush := func() {
		stmt := strings.TrimSpace(current.String())
		current.Reset()
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}

	n := len(dump)
	for i := 0; i < n; i++ {
		c := dump[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := quotedEnd(dump, i)
			current.WriteString(dump[i:end])
			i = end - 1
		case c == '-' && i+1 < n && dump[i+1] == '-', c == '#':
			for i < n && dump[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case c == '/' && i+1 < n && dump[i+1] == '*':
			end := strings.Index(dump[i+2:], "*/")
			if end < 0 {
				i = n
				break
			}
			i += end + 3
			current.WriteByte(' ')
		case c == ';':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()

	return statements
}

// quotedEnd returns the index just past the quote that closes the literal
// starting at start. Backslash escapes and doubled quotes are honoured except
// in backtick identifiers, which only support doubling.
func quotedEnd(s string, start int) int {
	q := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if q != '`' {
				i++
			}
		case q:
			if i+1 < len(s) && s[i+1] == q {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(s)
}

func statementPreview(stmt string) string {
	const limit = 100
	if len(stmt) <= limit {
		return stmt
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(stmt[cut]) {
		cut--
	}
	return stmt[:cut] + "..."
}
