package analysis

import (
	"sort"

	"github.com/SeamusWaldron/cubetwist/pkg/types"
)

// NGram represents a repeated move sequence.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence represents where an n-gram was found.
type NGramOccurrence struct {
	StartIndex int   `json:"start_index"`
	TsMs       int64 `json:"ts_ms"`
}

// NGramReport contains the results of n-gram mining.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"` // Keyed by n
}

// maxOccurrences caps the sample positions kept per n-gram.
const maxOccurrences = 10

// RollingHash implements a Rabin-Karp rolling hash over a fixed window.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint32
	n      int
}

// NewRollingHash creates a rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   1000003,
		n:      n,
		window: make([]uint32, 0, n),
	}

	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}

	return rh
}

// Roll appends a token, dropping the oldest once the window is full.
func (rh *RollingHash) Roll(token uint32) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)

	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint32 {
	result := make([]uint32, len(rh.window))
	copy(result, rh.window)
	return result
}

// Ready reports whether the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

type ngramEntry struct {
	tokens      []uint32
	count       int
	first       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the top-K sequences seen at least twice for each n in
// [minN, maxN]. Ties keep the earlier first occurrence first.
func MineNGrams(moves []types.Move, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	if minN < 1 || len(moves) < minN {
		return report
	}

	// Each distinct notation gets a token.
	vocab := make(map[string]uint32)
	names := []string{""}
	tokens := make([]uint32, len(moves))
	for i, m := range moves {
		key := m.Notation()
		tok, ok := vocab[key]
		if !ok {
			tok = uint32(len(names))
			vocab[key] = tok
			names = append(names, key)
		}
		tokens[i] = tok
	}

	for n := minN; n <= maxN && n <= len(moves); n++ {
		if ngrams := mineNGramsForN(tokens, names, moves, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}

func mineNGramsForN(tokens []uint32, names []string, moves []types.Move, n, topK int) []NGram {
	buckets := make(map[uint64][]*ngramEntry)
	var entries []*ngramEntry
	rh := NewRollingHash(n)

	for i, tok := range tokens {
		rh.Roll(tok)
		if !rh.Ready() {
			continue
		}

		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: moves[start].Timestamp}
		window := rh.Window()

		var entry *ngramEntry
		for _, e := range buckets[rh.Hash()] {
			if slicesEqual(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: window, first: start}
			buckets[rh.Hash()] = append(buckets[rh.Hash()], entry)
			entries = append(entries, entry)
		}
		entry.count++
		if len(entry.occurrences) < maxOccurrences {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	repeated := entries[:0]
	for _, e := range entries {
		if e.count >= 2 {
			repeated = append(repeated, e)
		}
	}

	sort.SliceStable(repeated, func(i, j int) bool {
		return repeated[i].count > repeated[j].count
	})

	if len(repeated) > topK {
		repeated = repeated[:topK]
	}

	result := make([]NGram, len(repeated))
	for i, e := range repeated {
		seq := make([]string, len(e.tokens))
		for j, tok := range e.tokens {
			seq[j] = names[tok]
		}
		result[i] = NGram{N: n, Sequence: seq, Count: e.count, Occurrences: e.occurrences}
	}

	return result
}

func slicesEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
