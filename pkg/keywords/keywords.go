// Package keywords holds the economic term list and the scoring rule applied
// to normalized document text.
package keywords

import (
	"fmt"
	"strings"

	"github.com/dnovoa/econpulse/pkg/textnorm"
)

// defaultTerms is the economic vocabulary tracked against the index. Terms are
// grouped by theme; multi-word phrases are legal entries.
var defaultTerms = []string{
	// Macroeconomia
	"inflacion", "ipc", "pib", "crecimiento", "recesion",
	"desempleo", "consumo",

	// Politica monetaria
	"tasa de interes", "tasas",
	"banco de la republica", "fed",

	// Mercados
	"bolsa", "acciones", "mercado",
	"colcap", "volatilidad",

	// Tipo de cambio
	"dolar", "trm", "divisas",

	// Commodities
	"petroleo", "brent", "oro",

	// Finanzas y riesgo
	"banco", "credito", "inversion",
	"crisis", "riesgo",
}

// Set is an ordered, deduplicated list of normalized keywords. A Set is
// immutable after construction and safe to share across workers.
type Set struct {
	terms []string
}

// NewSet builds a Set from raw terms. Each term is normalized the same way
// document text is, so "Inflación" and "inflacion" are the same keyword.
// Terms that normalize to the empty string are rejected.
func NewSet(terms []string) (*Set, error) {
	seen := make(map[string]struct{}, len(terms))
	normalized := make([]string, 0, len(terms))
	for _, term := range terms {
		n := textnorm.Normalize(term)
		if n == "" {
			return nil, fmt.Errorf("keyword %q normalizes to nothing", term)
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("keyword set is empty")
	}
	return &Set{terms: normalized}, nil
}

// DefaultSet returns the built-in economic keyword set.
func DefaultSet() *Set {
	s, err := NewSet(defaultTerms)
	if err != nil {
		// The built-in list is static; a failure here is a programming error.
		panic(err)
	}
	return s
}

// Terms returns a copy of the normalized keywords in their configured order.
func (s *Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Len reports the number of keywords in the set.
func (s *Set) Len() int { return len(s.terms) }

// Score counts keyword occurrences in an already-normalized text. Counting is
// by non-overlapping substring match over the whole text, summed across
// keywords. Substring matching is deliberate: the set mixes single words with
// phrases like "banco de la republica", and tokenizing first would make the
// phrase entries unmatchable.
func (s *Set) Score(normalized string) int {
	if normalized == "" {
		return 0
	}
	hits := 0
	for _, term := range s.terms {
		hits += strings.Count(normalized, term)
	}
	return hits
}
