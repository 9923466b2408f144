package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

const DefaultSampleSize = 50

type Word struct {
	Text        string
	Translation string
}

// Sampler draws distinct words from a catalog. Safe for concurrent use.
type Sampler struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	size int
}

func NewSampler(size int) *Sampler {
	return NewSamplerWithRand(size, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewSamplerWithRand(size int, rnd *rand.Rand) *Sampler {
	if size <= 0 {
		size = DefaultSampleSize
	}
	return &Sampler{rnd: rnd, size: size}
}

// Sample returns min(size, len(catalog)) distinct words in random order.
func (s *Sampler) Sample(catalog map[string]string) []Word {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	// map iteration order is random, sort so a seeded rand is reproducible
	sort.Strings(keys)

	k := s.size
	if len(keys) < k {
		k = len(keys)
	}

	s.mu.Lock()
	for i := 0; i < k; i++ {
		j := i + s.rnd.Intn(len(keys)-i)
		keys[i], keys[j] = keys[j], keys[i]
	}
	s.mu.Unlock()

	words := make([]Word, k)
	for i := 0; i < k; i++ {
		words[i] = Word{Text: keys[i], Translation: catalog[keys[i]]}
	}
	return words
}
