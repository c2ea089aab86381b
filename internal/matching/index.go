package matching

import "github.com/yourusername/sports-edge/internal/models"

// Index maps normalized keys to markets. It is built from exactly one
// snapshot and never mutated afterwards.
type Index struct {
	entries    map[string]*models.Market
	strategies []KeyStrategy
}

// BuildIndex generates every strategy's keys for each market in order.
// A later market overwrites an earlier one on a key collision.
// With no strategies given, DefaultStrategies is used.
func BuildIndex(markets []*models.Market, strategies ...KeyStrategy) *Index {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	idx := &Index{
		entries:    make(map[string]*models.Market, len(markets)*8),
		strategies: strategies,
	}
	for _, market := range markets {
		if market == nil {
			continue
		}
		for _, strategy := range strategies {
			for _, key := range strategy.MarketKeys(market) {
				idx.entries[key] = market
			}
		}
	}
	return idx
}

// Lookup returns the market stored under key
func (idx *Index) Lookup(key string) (*models.Market, bool) {
	if idx == nil {
		return nil, false
	}
	m, ok := idx.entries[key]
	return m, ok
}

// Len returns the number of keys in the index
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Strategies returns the key strategies the index was built with
func (idx *Index) Strategies() []KeyStrategy {
	if idx == nil || len(idx.strategies) == 0 {
		return DefaultStrategies()
	}
	return idx.strategies
}

// ProbeOrder lists the probe keys for an event in precedence order
func ProbeOrder(keys EventKeys, strategies []KeyStrategy) []string {
	var probes []string
	for _, strategy := range strategies {
		probes = append(probes, strategy.ProbeKeys(keys)...)
	}
	return probes
}
