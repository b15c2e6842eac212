// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package synthetic

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomtom215/attackmap/internal/geo"
	"github.com/tomtom215/attackmap/internal/models"
)

// Distribution parameters.
const (
	baseMean   = 4.5
	baseStdDev = 3.0
	baseFloor  = 3

	baseMinMagnitude = 20.0
	baseMaxMagnitude = 500.0

	burstProbability  = 0.2
	burstMaxArcs      = 4
	burstMinMagnitude = 50.0
	burstMaxMagnitude = 400.0
)

// ErrTooFewCodes is returned when a code set cannot produce distinct pairs.
var ErrTooFewCodes = errors.New("synthetic: need at least two distinct country codes")

// Generator produces plausible attack arcs when real data is unavailable.
// It is safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	codes []string
}

// New returns a generator over the geo catalogue. A nil src seeds from the
// runtime's random source.
func New(src rand.Source) *Generator {
	g, _ := NewWithCodes(src, geo.Codes())
	return g
}

// NewWithCodes returns a generator drawing from codes. Duplicates and blank
// entries are ignored.
func NewWithCodes(src rand.Source, codes []string) (*Generator, error) {
	set := dedupe(codes)
	if len(set) < 2 {
		return nil, ErrTooFewCodes
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src), codes: set}, nil
}

// Generate returns between min(3, maxCount) and maxCount arcs. maxCount
// below 1 is treated as 1.
func (g *Generator) Generate(maxCount int) []models.Arc {
	g.mu.Lock()
	defer g.mu.Unlock()
	return generate(g.rng, g.codes, maxCount)
}

// Codes returns the country codes the generator draws from.
func (g *Generator) Codes() []string {
	out := make([]string, len(g.codes))
	copy(out, g.codes)
	return out
}

// Generate is the stateless form of Generator.Generate over the geo catalogue.
// r must not be shared with other goroutines during the call.
func Generate(r *rand.Rand, maxCount int) []models.Arc {
	return generate(r, geo.Codes(), maxCount)
}

func generate(r *rand.Rand, codes []string, maxCount int) []models.Arc {
	arcs, _ := generateTagged(r, codes, maxCount)
	return arcs
}

// generateTagged also reports which arcs are concentration bursts, indexed
// like the returned slice.
func generateTagged(r *rand.Rand, codes []string, maxCount int) ([]models.Arc, []bool) {
	if maxCount < 1 {
		maxCount = 1
	}

	n := baseCount(r, maxCount)
	arcs := make([]models.Arc, 0, n*2)
	burst := make([]bool, 0, n*2)

	for i := 0; i < n; i++ {
		origin := pick(r, codes)
		target := pick(r, codes)
		for target == origin {
			target = pick(r, codes)
		}
		arcs = append(arcs, models.NewArc(origin, target, magnitude(r, baseMinMagnitude, baseMaxMagnitude)))
		burst = append(burst, false)

		if r.Float64() >= burstProbability {
			continue
		}
		extra := r.IntN(burstMaxArcs) + 1
		for j := 0; j < extra; j++ {
			src := pick(r, codes)
			for src == target {
				src = pick(r, codes)
			}
			arcs = append(arcs, models.NewArc(src, target, magnitude(r, burstMinMagnitude, burstMaxMagnitude)))
			burst = append(burst, true)
		}
	}

	r.Shuffle(len(arcs), func(i, j int) {
		arcs[i], arcs[j] = arcs[j], arcs[i]
		burst[i], burst[j] = burst[j], burst[i]
	})
	if len(arcs) > maxCount {
		arcs = arcs[:maxCount]
		burst = burst[:maxCount]
	}
	return arcs, burst
}

// baseCount draws floor(N(4.5, 3)), floored at 3 and capped at maxCount.
func baseCount(r *rand.Rand, maxCount int) int {
	n := int(math.Floor(r.NormFloat64()*baseStdDev + baseMean))
	if n < baseFloor {
		n = baseFloor
	}
	if n > maxCount {
		n = maxCount
	}
	return n
}

func magnitude(r *rand.Rand, lo, hi float64) float64 {
	return models.RoundTenth(lo + r.Float64()*(hi-lo))
}

func pick(r *rand.Rand, codes []string) string {
	return codes[r.IntN(len(codes))]
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = models.NormalizeCountryCode(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
