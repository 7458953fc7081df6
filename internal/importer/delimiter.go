package importer

import "strings"

// DetectDelimiter infers whether a bank export is comma- or
// semicolon-delimited by inspecting only the first line. Semicolon wins
// ties because semicolon exports routinely contain commas inside quoted
// amounts, while the reverse is rare. A line with neither character
// defaults to comma.
func DetectDelimiter(text string) rune {
	line, _, _ := strings.Cut(text, "\n")
	semis := strings.Count(line, ";")
	commas := strings.Count(line, ",")
	if semis > 0 && semis >= commas {
		return ';'
	}
	return ','
}
