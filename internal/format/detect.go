// Package format detects which timestamp/separator convention a chat
// transcript uses. Export tools disagree on the line shape, so the parser is
// told up front which pattern to anchor on.
package format

import (
	"regexp"
	"strings"
)

// Format describes the detected line convention of a transcript. Timestamp is
// anchored at line start with the timestamp text (brackets excluded) as the
// first capture group.
type Format struct {
	Timestamp    *regexp.Regexp
	UsesBrackets bool
	SenderSep    string // ": " or " - "
	Confidence   float64
}

const sampleLines = 10

const timestampBody = `\d{1,2}/\d{1,2}/\d{2,4},\s\d{1,2}:\d{1,2}(?::\d{1,2})?`

// The three known line shapes, in match priority order. A sampled line is
// counted against the first shape it matches, never more than one.
var (
	// [16/04/2024, 11:59:24] Alice: Hello
	bracketedRe = regexp.MustCompile(`^\[(` + timestampBody + `)\]`)
	// 12/04/24, 09:15 - Bob: hi
	mobileRe = regexp.MustCompile(`^(` + timestampBody + `)\s-\s`)
	// 16/04/2024, 11:59 Alice: Hello
	plainRe = regexp.MustCompile(`^(` + timestampBody + `)`)
	// Permissive fallback: optional brackets, used when no shape matched.
	fallbackRe = regexp.MustCompile(`^\[?(` + timestampBody + `)\]?`)
)

var shapes = []struct {
	re           *regexp.Regexp
	usesBrackets bool
	senderSep    string
}{
	{bracketedRe, true, ": "},
	{mobileRe, false, " - "},
	{plainRe, false, ": "},
}

// Detect samples the first non-blank lines of a transcript and picks the
// dominant shape by plurality. Confidence is the dominant shape's share of
// the lines that matched any shape; lines matching nothing (banner text,
// malformed leading lines) are excluded from the denominator.
//
// When no sampled line matches any shape, Detect returns the permissive
// fallback with confidence 0.1 instead of failing, so parsing can proceed
// and still-unmatched lines degrade to silent drops.
func Detect(text string) Format {
	counts := make([]int, len(shapes))
	sampled := 0
	total := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sampled++
		for i, shape := range shapes {
			if shape.re.MatchString(line) {
				counts[i]++
				total++
				break
			}
		}
		if sampled >= sampleLines {
			break
		}
	}

	if total == 0 {
		return Format{
			Timestamp:  fallbackRe,
			SenderSep:  ": ",
			Confidence: 0.1,
		}
	}

	dominant := 0
	for i, n := range counts {
		if n > counts[dominant] {
			dominant = i
		}
	}
	return Format{
		Timestamp:    shapes[dominant].re,
		UsesBrackets: shapes[dominant].usesBrackets,
		SenderSep:    shapes[dominant].senderSep,
		Confidence:   float64(counts[dominant]) / float64(total),
	}
}
