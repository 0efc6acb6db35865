// Package csv implements the delimited-text parser used for bulk SKU
// ingestion.
//
// It is intentionally hand-rolled rather than built on encoding/csv:
// uploads arrive from spreadsheet exports with mixed delimiters (comma or
// tab), stray CR/LF line endings, and quoted cells that contain delimiters
// and line breaks. The parser accepts all of them and never fails.
package csv

import "strings"

// Parse splits raw delimited text into rows of trimmed fields.
//
// Rules:
//   - comma and tab both act as field separators
//   - a double-quoted field may contain delimiters and line breaks; a
//     doubled quote ("") inside a quoted field is a literal quote
//   - rows terminate on \n or \r\n when not inside quotes
//   - every field value is trimmed of surrounding whitespace
//   - a trailing row without a terminating newline is still emitted if it
//     has any content
//   - blank lines produce no row
//
// Parse never fails for any input; empty input yields zero rows.
func Parse(text string) [][]string {
	var rows [][]string
	var row []string
	var cell strings.Builder
	inQuotes := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				// Escaped literal quote inside a quoted field.
				cell.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}

		case (c == ',' || c == '\t') && !inQuotes:
			row = append(row, strings.TrimSpace(cell.String()))
			cell.Reset()

		case (c == '\r' || c == '\n') && !inQuotes:
			// \r\n counts as a single terminator.
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			if hasContent(row) || strings.TrimSpace(cell.String()) != "" {
				row = append(row, strings.TrimSpace(cell.String()))
				rows = append(rows, row)
			}
			row = nil
			cell.Reset()

		default:
			cell.WriteByte(c)
		}
	}

	// Trailing row without a newline.
	if len(row) > 0 || strings.TrimSpace(cell.String()) != "" {
		row = append(row, strings.TrimSpace(cell.String()))
		rows = append(rows, row)
	}

	return rows
}

// hasContent reports whether any already-accumulated field is non-empty.
// Fields are trimmed before accumulation, so a plain equality check is enough.
func hasContent(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
