// Package matching correlates live events with prediction markets.
package matching

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mascots are final-word tokens dropped from multi-word team names even when
// they are not plural
var mascots = map[string]bool{
	"seminoles": true, "wolfpack": true, "tide": true, "irish": true,
	"heat": true, "magic": true, "jazz": true, "thunder": true,
	"lightning": true, "wild": true, "avalanche": true, "kraken": true,
	"cardinal": true, "orange": true, "wave": true, "storm": true,
	"fire": true, "sky": true, "mercury": true, "fever": true,
	"dream": true, "liberty": true, "lynx": true, "sun": true,
}

// sportSuffixes are stripped from the end of a lower-cased name
var sportSuffixes = []string{" football", " basketball", " fc", " sc"}

// Normalize canonicalizes a free-text team name. It is deterministic and
// idempotent: Normalize(Normalize(x)) == Normalize(x).
//
// The mascot rule only fires on a capitalized final word, so an already
// normalized (lower-case) name is never truncated a second time.
func Normalize(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	words := strings.Fields(name)
	if len(words) >= 2 && isMascot(words[len(words)-1]) {
		words = words[:len(words)-1]
	}

	name = foldAccents(strings.ToLower(strings.Join(words, " ")))
	name = stripSportSuffixes(name)
	return expandSaint(name)
}

func isMascot(word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsUpper(first) {
		return false
	}
	lower := strings.ToLower(word)
	if mascots[lower] {
		return true
	}
	return len(lower) > 4 && strings.HasSuffix(lower, "s")
}

func stripSportSuffixes(name string) string {
	for {
		stripped := false
		for _, suffix := range sportSuffixes {
			if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
				name = strings.TrimSpace(strings.TrimSuffix(name, suffix))
				stripped = true
			}
		}
		if !stripped {
			return name
		}
	}
}

// expandSaint rewrites "st." and "st" words to "state" and collapses whitespace
func expandSaint(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if w == "st." || w == "st" {
			words[i] = "state"
		}
	}
	return strings.Join(words, " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeAbbr canonicalizes a team abbreviation for key building
func NormalizeAbbr(abbr string) string {
	return strings.ToLower(strings.TrimSpace(abbr))
}
