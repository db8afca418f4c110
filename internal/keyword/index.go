// Package keyword indexes scored sentence pairs for full-text lookup and provides
// edit-distance helpers.
package keyword

// PairDoc is the indexed form of one scored pair.
type PairDoc struct {
	Model string  `json:"model"`
	UGC   string  `json:"ugc"`
	Std   string  `json:"std"`
	Cos   float64 `json:"cos"`
}

// SearchOptions optional parameters for Search. Nil means exact match over both sides.
type SearchOptions struct {
	// Field restricts matching to "ugc" or "std". Empty searches both.
	Field string
	// Model restricts hits to pairs scored by this model key.
	Model string
	// Fuzzy enables typo-tolerant matching within Fuzziness edits (default 1).
	Fuzzy     bool
	Fuzziness int
}

// Hit is a single search hit.
type Hit struct {
	ID    string
	Score float64
}
