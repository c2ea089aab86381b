package matching

import (
	"strings"
	"unicode"

	"github.com/yourusername/sports-edge/internal/models"
)

// maxTickerSuffixLen bounds the ticker suffixes treated as team abbreviations
const maxTickerSuffixLen = 5

// EventKeys holds the normalized identifiers of one event used for probing
type EventKeys struct {
	Home     string
	Away     string
	HomeAbbr string
	AwayAbbr string
}

// NewEventKeys normalizes an event's team names and abbreviations
func NewEventKeys(event *models.Event) EventKeys {
	return EventKeys{
		Home:     Normalize(event.HomeTeam),
		Away:     Normalize(event.AwayTeam),
		HomeAbbr: NormalizeAbbr(event.GetHomeAbbr()),
		AwayAbbr: NormalizeAbbr(event.GetAwayAbbr()),
	}
}

// KeyStrategy generates index keys for markets and probe keys for events.
// Strategies are applied in list order; earlier probe keys take precedence.
type KeyStrategy interface {
	Name() string
	MarketKeys(market *models.Market) []string
	ProbeKeys(keys EventKeys) []string
}

// DefaultStrategies returns the standard precedence: full names, abbreviation
// pairs, ticker suffix mixed with names, then title words.
func DefaultStrategies() []KeyStrategy {
	return []KeyStrategy{
		NameStrategy{},
		AbbreviationStrategy{},
		TickerSuffixStrategy{},
		TitleStrategy{},
	}
}

func pairKey(a, b string) string {
	if a == "" || b == "" {
		return ""
	}
	return a + "_" + b
}

func compact(keys ...string) []string {
	out := keys[:0]
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// NameStrategy keys on normalized full team names in both orders
type NameStrategy struct{}

func (NameStrategy) Name() string { return "names" }

func (NameStrategy) MarketKeys(market *models.Market) []string {
	home, away := Normalize(market.HomeTeam), Normalize(market.AwayTeam)
	return compact(pairKey(away, home), pairKey(home, away))
}

func (NameStrategy) ProbeKeys(keys EventKeys) []string {
	return compact(pairKey(keys.Away, keys.Home), pairKey(keys.Home, keys.Away))
}

// AbbreviationStrategy probes abbreviation pairs. Markets carry no
// abbreviations of their own, so these probes only hit title-derived keys.
type AbbreviationStrategy struct{}

func (AbbreviationStrategy) Name() string { return "abbreviations" }

func (AbbreviationStrategy) MarketKeys(*models.Market) []string { return nil }

func (AbbreviationStrategy) ProbeKeys(keys EventKeys) []string {
	return compact(pairKey(keys.AwayAbbr, keys.HomeAbbr), pairKey(keys.HomeAbbr, keys.AwayAbbr))
}

// TickerSuffixStrategy combines the ticker's team suffix with team names
type TickerSuffixStrategy struct{}

func (TickerSuffixStrategy) Name() string { return "ticker_suffix" }

func (TickerSuffixStrategy) MarketKeys(market *models.Market) []string {
	suffix, ok := market.TickerSuffix()
	if !ok || len(suffix) > maxTickerSuffixLen {
		return nil
	}
	sfx := NormalizeAbbr(suffix)
	home, away := Normalize(market.HomeTeam), Normalize(market.AwayTeam)
	return compact(pairKey(sfx, home), pairKey(home, sfx), pairKey(sfx, away), pairKey(away, sfx))
}

func (TickerSuffixStrategy) ProbeKeys(keys EventKeys) []string {
	return compact(
		pairKey(keys.AwayAbbr, keys.Home),
		pairKey(keys.Home, keys.AwayAbbr),
		pairKey(keys.HomeAbbr, keys.Away),
		pairKey(keys.Away, keys.HomeAbbr),
	)
}

// TitleStrategy keys on the trailing meaningful words of the market title
type TitleStrategy struct{}

func (TitleStrategy) Name() string { return "title" }

func (TitleStrategy) MarketKeys(market *models.Market) []string {
	words := titleWords(market.Title)
	if len(words) < 2 {
		return nil
	}
	keys := []string{strings.Join(words[len(words)-2:], "_")}
	if len(words) >= 3 {
		keys = append(keys, strings.Join(words[len(words)-3:], "_"))
	}
	return keys
}

func (TitleStrategy) ProbeKeys(EventKeys) []string { return nil }

// titleWords lower-cases the title, drops punctuation and keeps words longer than two characters
func titleWords(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := fields[:0]
	for _, w := range fields {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}
