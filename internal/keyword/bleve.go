package keyword

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"
)

// Indexed field names.
const (
	FieldUGC   = "ugc"
	FieldStd   = "std"
	FieldModel = "model"
)

// PairIndex is an in-memory Bleve index over scored pairs.
type PairIndex struct {
	index bleve.Index
}

// NewPairIndex creates an empty in-memory index.
func NewPairIndex() (*PairIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming): noisy spellings must stay distinct.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt(FieldUGC, textFieldMapping)
	docMapping.AddFieldMappingsAt(FieldStd, textFieldMapping)
	docMapping.AddFieldMappingsAt(FieldModel, bleve.NewKeywordFieldMapping())
	cosMapping := bleve.NewNumericFieldMapping()
	cosMapping.Index = false
	docMapping.AddFieldMappingsAt("cos", cosMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &PairIndex{index: index}, nil
}

// Index adds or replaces the pair stored under id.
func (p *PairIndex) Index(ctx context.Context, id string, doc *PairDoc) error {
	return p.index.Index(id, doc)
}

// IndexBatch adds many pairs in a single batch; ids and docs are parallel.
func (p *PairIndex) IndexBatch(ctx context.Context, ids []string, docs []*PairDoc) error {
	if len(ids) != len(docs) {
		return fmt.Errorf("index batch: %d ids for %d documents", len(ids), len(docs))
	}
	batch := p.index.NewBatch()
	for i, id := range ids {
		if err := batch.Index(id, docs[i]); err != nil {
			return fmt.Errorf("failed to batch %s: %w", id, err)
		}
	}
	if err := p.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to index batch: %w", err)
	}
	return nil
}

// Search runs query against the pair text and returns up to limit hits by relevance.
func (p *PairIndex) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]*Hit, error) {
	if opts == nil {
		opts = &SearchOptions{}
	}
	fuzziness := opts.Fuzziness
	if fuzziness <= 0 {
		fuzziness = 1
	}

	var fields []string
	switch opts.Field {
	case "":
		fields = []string{FieldUGC, FieldStd}
	case FieldUGC, FieldStd:
		fields = []string{opts.Field}
	default:
		return nil, fmt.Errorf("unknown search field %q", opts.Field)
	}

	var textQueries []blevequery.Query
	for _, f := range fields {
		if opts.Fuzzy {
			textQueries = append(textQueries, buildFuzzyQuery(query, fuzziness, f))
		} else {
			mq := bleve.NewMatchQuery(query)
			mq.SetField(f)
			textQueries = append(textQueries, mq)
		}
	}
	var q blevequery.Query = bleve.NewDisjunctionQuery(textQueries...)
	if opts.Model != "" {
		mq := bleve.NewTermQuery(opts.Model)
		mq.SetField(FieldModel)
		q = bleve.NewConjunctionQuery(q, mq)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	results, err := p.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Hit, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Hit{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// tokenizeQuery splits query into lowercase terms.
func tokenizeQuery(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// buildFuzzyQuery creates a disjunction of FuzzyQueries, one per query term, on field.
func buildFuzzyQuery(queryStr string, fuzziness int, field string) blevequery.Query {
	terms := tokenizeQuery(queryStr)
	if len(terms) == 0 {
		mq := bleve.NewMatchQuery(queryStr)
		mq.SetField(field)
		return mq
	}
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField(field)
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// DocCount returns the number of indexed pairs.
func (p *PairIndex) DocCount() (uint64, error) {
	return p.index.DocCount()
}

// TermFrequencies returns every indexed text term with the number of pair sides containing it.
func (p *PairIndex) TermFrequencies() (map[string]int, error) {
	freqs := make(map[string]int)
	for _, field := range []string{FieldUGC, FieldStd} {
		dict, err := p.index.FieldDict(field)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s terms: %w", field, err)
		}
		for {
			entry, err := dict.Next()
			if err != nil {
				dict.Close()
				return nil, fmt.Errorf("failed to read %s terms: %w", field, err)
			}
			if entry == nil {
				break
			}
			freqs[entry.Term] += int(entry.Count)
		}
		dict.Close()
	}
	return freqs, nil
}

// Close closes the index.
func (p *PairIndex) Close() error {
	return p.index.Close()
}
