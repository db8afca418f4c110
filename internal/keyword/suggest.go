package keyword

import (
	"sort"
	"strings"
)

// Suggestion is a spelling alternative for a query term drawn from the indexed pairs.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
}

// Suggester proposes indexed terms close to query terms that matched nothing.
type Suggester struct {
	freqs          map[string]int
	maxDistance    int
	maxSuggestions int
}

// NewSuggester snapshots the term dictionary of idx.
func NewSuggester(idx *PairIndex, maxDistance, maxSuggestions int) (*Suggester, error) {
	freqs, err := idx.TermFrequencies()
	if err != nil {
		return nil, err
	}
	if maxDistance <= 0 {
		maxDistance = 2
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}
	return &Suggester{freqs: freqs, maxDistance: maxDistance, maxSuggestions: maxSuggestions}, nil
}

// Suggest returns indexed terms within the edit budget of term, closest and most frequent first.
// A term that is itself indexed has no suggestions.
func (s *Suggester) Suggest(term string) []Suggestion {
	term = strings.ToLower(term)
	if _, ok := s.freqs[term]; ok {
		return nil
	}
	n := len([]rune(term))
	var out []Suggestion
	for cand, freq := range s.freqs {
		diff := len([]rune(cand)) - n
		if diff > s.maxDistance || -diff > s.maxDistance {
			continue
		}
		if d := LevenshteinDistance(term, cand); d <= s.maxDistance {
			out = append(out, Suggestion{Term: cand, Distance: d, Frequency: freq})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > s.maxSuggestions {
		out = out[:s.maxSuggestions]
	}
	return out
}

// CorrectQuery replaces each unknown term of query with its best suggestion. The second result
// reports whether anything changed.
func (s *Suggester) CorrectQuery(query string) (string, bool) {
	terms := tokenizeQuery(query)
	changed := false
	for i, t := range terms {
		if sugg := s.Suggest(t); len(sugg) > 0 {
			terms[i] = sugg[0].Term
			changed = true
		}
	}
	return strings.Join(terms, " "), changed
}
