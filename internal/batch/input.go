package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	emailaddress "github.com/mcnijman/go-emailaddress"

	"github.com/dgellow/perfectemail/emailutil"
)

const maxLineSize = 1 << 20

// ReadLines reads one input per line. Surrounding whitespace is trimmed;
// blank lines and lines starting with '#' are skipped.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var lines []string
	for scanner.Scan() {
		if line, ok := inputLine(scanner.Text()); ok {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}

// SplitLines applies the ReadLines rules to an in-memory string.
func SplitLines(s string) []string {
	var lines []string
	for raw := range strings.Lines(s) {
		if line, ok := inputLine(raw); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func inputLine(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return line, true
}

// Extract finds address-shaped substrings in free text and returns them in
// order of first appearance. Candidates that differ only in case are reported
// once. Matches are not checked against the strict validator; run them
// through a Processor for that.
func Extract(text string) []string {
	seen := map[string]bool{}

	var emails []string
	for _, addr := range emailaddress.Find([]byte(text), false) {
		s := addr.String()
		key := emailutil.Clean(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		emails = append(emails, s)
	}
	return emails
}
