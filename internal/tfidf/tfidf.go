package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	currencyRegex   = regexp.MustCompile(`\$\d+`)
	percentRegex    = regexp.MustCompile(`\d+%`)
	specialRegex    = regexp.MustCompile(`[^\p{L}\p{N}_\s?:,.\-()]`)
	tokenRegex      = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
)

var ErrEmptyCorpus = errors.New("tfidf: empty corpus")

type Options struct {
	MaxFeatures int // vocabulary cap, most frequent terms win
}

func DefaultOptions() Options {
	return Options{MaxFeatures: 1000}
}

// a fitted TF-IDF model over a fixed set of documents
type Index struct {
	vocabulary map[string]int
	idf        []float64
	docs       []sparseVector
}

type sparseVector map[int]float64

// a document position and its cosine similarity to the query
type Match struct {
	Doc   int
	Score float64
}

// normalizes text the same way for documents and queries; amounts are
// normalized before the strip, which would otherwise drop "$" and "%"
func Preprocess(text string) string {
	text = strings.ToLower(text)
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = currencyRegex.ReplaceAllString(text, "price")
	text = percentRegex.ReplaceAllString(text, "percentage")
	text = specialRegex.ReplaceAllString(text, "")

	return strings.TrimSpace(text)
}

func tokenize(text string) []string {
	raw := tokenRegex.FindAllString(Preprocess(text), -1)
	out := raw[:0]

	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}

		out = append(out, tok)
	}

	return out
}

// fits the vocabulary and IDF weights, then vectorizes every document
func Build(docs []string, opts Options) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = DefaultOptions().MaxFeatures
	}

	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	freq := make(map[string]int)

	for i, doc := range docs {
		tokens := tokenize(doc)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))

		for _, tok := range tokens {
			freq[tok]++

			if _, ok := seen[tok]; ok {
				continue
			}

			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	if len(freq) == 0 {
		return nil, ErrEmptyCorpus
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}

	// most frequent first, alphabetical among equals
	sort.Slice(terms, func(a, b int) bool {
		if freq[terms[a]] != freq[terms[b]] {
			return freq[terms[a]] > freq[terms[b]]
		}

		return terms[a] < terms[b]
	})

	if len(terms) > opts.MaxFeatures {
		terms = terms[:opts.MaxFeatures]
	}

	sort.Strings(terms)

	idx := &Index{
		vocabulary: make(map[string]int, len(terms)),
		idf:        make([]float64, len(terms)),
		docs:       make([]sparseVector, len(docs)),
	}

	n := float64(len(docs))

	for i, term := range terms {
		idx.vocabulary[term] = i
		idx.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	for i, tokens := range tokenized {
		idx.docs[i] = idx.vectorize(tokens)
	}

	return idx, nil
}

// number of documents in the index
func (x *Index) Len() int {
	return len(x.docs)
}

// number of retained terms
func (x *Index) Features() int {
	return len(x.vocabulary)
}

// raw term counts weighted by IDF, L2 normalized
func (x *Index) vectorize(tokens []string) sparseVector {
	vec := make(sparseVector)

	for _, tok := range tokens {
		if i, ok := x.vocabulary[tok]; ok {
			vec[i]++
		}
	}

	norm := 0.0

	for i, count := range vec {
		w := count * x.idf[i]
		vec[i] = w
		norm += w * w
	}

	if norm == 0 {
		return vec
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}

	return vec
}

// returns the k most similar documents, best first; documents with zero similarity are omitted
func (x *Index) Search(query string, k int) []Match {
	if k <= 0 || len(x.docs) == 0 {
		return nil
	}

	q := x.vectorize(tokenize(query))
	if len(q) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(x.docs))

	for i, doc := range x.docs {
		score := dot(q, doc)
		if score > 0 {
			matches = append(matches, Match{Doc: i, Score: score})
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches
}

func dot(a, b sparseVector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	sum := 0.0
	for i, v := range a {
		sum += v * b[i]
	}

	return sum
}
