// Package vectorize turns catalog text into TF-IDF weighted, unit-length term vectors.
package vectorize

import (
	"fmt"
	"math"
	"sort"

	"github.com/kailas-cloud/movierec/internal/domain/vector"
)

// DefaultMaxFeatures caps the vocabulary size.
const DefaultMaxFeatures = 5000

// Options configures vocabulary construction.
type Options struct {
	MaxFeatures int  // <= 0 means DefaultMaxFeatures
	Stem        bool // apply English Snowball stemming
}

// Key identifies the options after defaults are applied.
func (o Options) Key() string {
	maxFeatures := o.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return fmt.Sprintf("mf=%d:stem=%t", maxFeatures, o.Stem)
}

// Vocabulary maps retained terms to indexes and corpus-wide weights. Immutable.
type Vocabulary struct {
	terms   []string
	index   map[string]int
	weights []float64
}

// Len returns the number of retained terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Index returns the term index and whether the term was retained.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Weight returns the IDF weight of the term, 0 if not retained.
func (v *Vocabulary) Weight(term string) float64 {
	if i, ok := v.index[term]; ok {
		return v.weights[i]
	}
	return 0
}

// Terms returns the retained terms in index order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Result holds the vocabulary and one vector per input document.
type Result struct {
	Vocabulary *Vocabulary
	Vectors    []vector.Sparse
}

// Vectorizer builds TF-IDF vectors over a fixed corpus.
type Vectorizer struct {
	tokenizer   *Tokenizer
	maxFeatures int
}

// New creates a vectorizer.
func New(opts Options) *Vectorizer {
	maxFeatures := opts.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{tokenizer: NewTokenizer(opts.Stem), maxFeatures: maxFeatures}
}

// termStat accumulates corpus statistics for one term.
type termStat struct {
	term      string
	firstSeen int
	count     int // total occurrences in the corpus
	docFreq   int // documents containing the term
}

// Fit builds the vocabulary from docs and vectorizes each of them.
//
// The vocabulary keeps the maxFeatures most frequent terms, ties broken by
// first occurrence. Each term weight is the smoothed inverse document
// frequency ln((1+n)/(1+df)) + 1. Document vectors are raw counts times
// weight, L2-normalized; a document without retained terms stays zero.
func (v *Vectorizer) Fit(docs []string) Result {
	tokenized := make([][]string, len(docs))
	stats := make(map[string]*termStat)
	var order []*termStat

	for d, doc := range docs {
		tokens := v.tokenizer.Tokens(doc)
		tokenized[d] = tokens

		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			st, ok := stats[tok]
			if !ok {
				st = &termStat{term: tok, firstSeen: len(order)}
				stats[tok] = st
				order = append(order, st)
			}
			st.count++
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				st.docFreq++
			}
		}
	}

	// order is already first-seen, so a stable sort by count keeps the tie-break.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].count > order[j].count
	})
	if len(order) > v.maxFeatures {
		order = order[:v.maxFeatures]
	}

	n := float64(len(docs))
	vocab := &Vocabulary{
		terms:   make([]string, len(order)),
		index:   make(map[string]int, len(order)),
		weights: make([]float64, len(order)),
	}
	for i, st := range order {
		vocab.terms[i] = st.term
		vocab.index[st.term] = i
		vocab.weights[i] = math.Log((1+n)/(1+float64(st.docFreq))) + 1
	}

	vectors := make([]vector.Sparse, len(docs))
	for d, tokens := range tokenized {
		vectors[d] = vocab.vectorize(tokens)
	}

	return Result{Vocabulary: vocab, Vectors: vectors}
}

func (v *Vocabulary) vectorize(tokens []string) vector.Sparse {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if i, ok := v.index[tok]; ok {
			counts[i]++
		}
	}
	for i, c := range counts {
		counts[i] = c * v.weights[i]
	}
	return vector.FromMap(counts).Normalize()
}
