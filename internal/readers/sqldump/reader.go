// Package sqldump extracts rows for one named table from a raw MySQL
// dump without a full SQL parser.
//
// The legacy CMS database arrives as mysqldump text. Only the INSERT
// statements for the requested table matter; everything else (DDL,
// comments, other tables) is skipped by scanning, not parsed. Tuple
// bodies are split with a small quote-aware scanner that tolerates
// backslash escapes, doubled quotes and embedded commas inside string
// literals. Dumps are tens of megabytes, so the scanner walks the text
// by index instead of repeatedly slicing strings.
package sqldump

import (
	"fmt"
	"os"
	"strings"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
)

// Parse reads a dump file and returns one Row per inserted tuple of the
// named table. Statements must carry an explicit column list
// (mysqldump --complete-insert); use ParseWithColumns otherwise.
func Parse(filePath, table string) ([]domain.Row, error) {
	return parseFile(filePath, table, nil)
}

// ParseWithColumns reads a dump whose INSERT statements omit the column
// list, mapping tuple values onto the given column names by position.
func ParseWithColumns(filePath, table string, columns []string) ([]domain.Row, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns given for table %s", domain.ErrInvalidInput, table)
	}
	return parseFile(filePath, table, columns)
}

func parseFile(filePath, table string, columns []string) ([]domain.Row, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceFile, filePath, err)
	}
	rows, err := ParseText(string(data), table, columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceFile, filePath, err)
	}
	return rows, nil
}

// ParseText extracts rows from dump text. Exposed for tests.
// columns may be nil when the statements carry their own column list.
func ParseText(sql, table string, columns []string) ([]domain.Row, error) {
	var rows []domain.Row

	for pos := 0; ; {
		start, after := findInsert(sql, table, pos)
		if start < 0 {
			break
		}
		pos = after

		cols := columns
		i := skipSpaces(sql, after)
		if i < len(sql) && sql[i] == '(' {
			list, next, err := scanParenGroup(sql, i)
			if err != nil {
				return nil, err
			}
			cols = splitColumns(list)
			i = skipSpaces(sql, next)
		}
		if len(cols) == 0 {
			return nil, fmt.Errorf("%w: INSERT for %s has no column list", domain.ErrInvalidInput, table)
		}

		if !hasKeywordAt(sql, i, "VALUES") {
			continue
		}
		i += len("VALUES")

		tuples, next, err := scanTuples(sql, i)
		if err != nil {
			return nil, err
		}
		pos = next

		for _, tuple := range tuples {
			values := splitTupleValues(tuple)
			row := make(domain.Row, len(cols))
			for ci, col := range cols {
				if ci < len(values) {
					row[col] = values[ci]
				} else {
					row[col] = ""
				}
			}
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// findInsert locates the next "INSERT INTO <table>" statement at or
// after pos, matching both backtick-quoted and bare table names.
// Returns the match start and the index just past the table name, or
// (-1, 0) when no further statement exists.
func findInsert(sql, table string, pos int) (int, int) {
	quoted := "INSERT INTO `" + table + "`"
	bare := "INSERT INTO " + table

	for {
		idx := indexFrom(sql, "INSERT INTO ", pos)
		if idx < 0 {
			return -1, 0
		}
		if matchAt(sql, idx, quoted) {
			return idx, idx + len(quoted)
		}
		if matchAt(sql, idx, bare) {
			// Guard against prefix collisions (Product vs ProductImage).
			end := idx + len(bare)
			if end >= len(sql) || !isIdentChar(sql[end]) {
				return idx, end
			}
		}
		pos = idx + len("INSERT INTO ")
	}
}

func indexFrom(s, sub string, from int) int {
	if from >= len(s) {
		return -1
	}
	idx := strings.Index(s[from:], sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func matchAt(s string, idx int, sub string) bool {
	return idx+len(sub) <= len(s) && s[idx:idx+len(sub)] == sub
}

func hasKeywordAt(s string, idx int, kw string) bool {
	return idx+len(kw) <= len(s) && strings.EqualFold(s[idx:idx+len(kw)], kw)
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

// scanParenGroup reads a balanced, quote-aware parenthesised group
// starting at the '(' at index i. Returns the inner text and the index
// just past the closing ')'.
func scanParenGroup(s string, i int) (string, int, error) {
	if i >= len(s) || s[i] != '(' {
		return "", 0, fmt.Errorf("%w: expected '(' at offset %d", domain.ErrInvalidInput, i)
	}
	depth := 0
	inQuote := false
	for j := i; j < len(s); j++ {
		c := s[j]
		if inQuote {
			switch c {
			case '\\':
				j++ // skip escaped char
			case '\'':
				// Doubled quote is an escaped quote, stay in string.
				if j+1 < len(s) && s[j+1] == '\'' {
					j++
				} else {
					inQuote = false
				}
			}
			continue
		}
		switch c {
		case '\'':
			inQuote = true
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("%w: unterminated group at offset %d", domain.ErrInvalidInput, i)
}

// scanTuples reads the comma-separated tuple list after VALUES up to
// the terminating semicolon (or end of input). Returns the raw inner
// text of each tuple and the index past the statement.
func scanTuples(s string, i int) ([]string, int, error) {
	var tuples []string
	for {
		i = skipSpaces(s, i)
		if i >= len(s) || s[i] == ';' {
			if i < len(s) {
				i++
			}
			return tuples, i, nil
		}
		if s[i] == ',' {
			i++
			continue
		}
		inner, next, err := scanParenGroup(s, i)
		if err != nil {
			return nil, 0, err
		}
		tuples = append(tuples, inner)
		i = next
	}
}

// splitTupleValues splits one tuple body into decoded field values.
func splitTupleValues(tuple string) []string {
	var values []string
	i := 0
	for i <= len(tuple) {
		i = skipSpaces(tuple, i)
		if i >= len(tuple) {
			break
		}
		if tuple[i] == '\'' {
			val, next := scanStringLiteral(tuple, i)
			values = append(values, val)
			i = skipSpaces(tuple, next)
		} else {
			// Bare token: number, NULL, or expression up to the comma.
			end := i
			for end < len(tuple) && tuple[end] != ',' {
				end++
			}
			values = append(values, decodeBareToken(tuple[i:end]))
			i = end
		}
		if i < len(tuple) && tuple[i] == ',' {
			i++
		}
	}
	return values
}

// scanStringLiteral decodes a single-quoted SQL string starting at the
// opening quote. Returns the decoded value and the index past the
// closing quote.
func scanStringLiteral(s string, i int) (string, int) {
	var b strings.Builder
	j := i + 1
	for j < len(s) {
		c := s[j]
		switch c {
		case '\\':
			if j+1 < len(s) {
				b.WriteByte(decodeEscape(s[j+1]))
				j += 2
				continue
			}
			j++
		case '\'':
			if j+1 < len(s) && s[j+1] == '\'' {
				b.WriteByte('\'')
				j += 2
				continue
			}
			return b.String(), j + 1
		default:
			b.WriteByte(c)
			j++
		}
	}
	return b.String(), j
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '0':
		return 0
	default:
		return c
	}
}

// decodeBareToken normalises an unquoted tuple value. The NULL keyword
// becomes "", matching the CSV reader's convention.
func decodeBareToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if strings.EqualFold(tok, "NULL") {
		return ""
	}
	return tok
}

// splitColumns parses the parenthesised column list of an INSERT.
func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		col := strings.Trim(strings.TrimSpace(p), "`\"")
		if col != "" {
			cols = append(cols, col)
		}
	}
	return cols
}
