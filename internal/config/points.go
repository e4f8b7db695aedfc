package config

import (
	"github.com/abhisek/exambank/internal/bank"
)

// DefaultKey is the per-type fallback entry in a points table.
const DefaultKey = "default"

// FallbackPoints is used when neither the topic nor the type's default
// has an entry.
const FallbackPoints = 1.0

// Points maps question type to topic to point value.
type Points map[bank.Type]map[string]float64

// Lookup returns the points for a question of typ in topic.
func (p Points) Lookup(typ bank.Type, topic string) float64 {
	byTopic, ok := p[typ]
	if !ok {
		return FallbackPoints
	}
	if v, ok := byTopic[topic]; ok {
		return v
	}
	if v, ok := byTopic[DefaultKey]; ok {
		return v
	}
	return FallbackPoints
}
