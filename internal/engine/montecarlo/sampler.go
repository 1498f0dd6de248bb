package montecarlo

import (
	"math"
	"math/rand/v2"

	"github.com/bobmcallan/finmodel/internal/models"
)

// maxRedraws caps rejection sampling; after it the last draw is clamped.
const maxRedraws = 1000

// sampler draws bounded normal values from its own generator. Not safe for
// concurrent use; each worker owns one.
type sampler struct {
	rng      *rand.Rand
	spare    float64
	hasSpare bool
}

func newSampler(seed, stream uint64) *sampler {
	return &sampler{rng: rand.New(rand.NewPCG(seed, stream))}
}

// normal returns a standard normal draw using the Box-Muller transform.
// Draws come in pairs; the second is kept for the next call.
func (s *sampler) normal() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}
	u1 := s.rng.Float64()
	for u1 == 0 {
		u1 = s.rng.Float64()
	}
	u2 := s.rng.Float64()

	r := math.Sqrt(-2 * math.Log(u1))
	theta := 2 * math.Pi * u2
	s.spare = r * math.Sin(theta)
	s.hasSpare = true
	return r * math.Cos(theta)
}

// bounded draws N(mean, std) and rejects values outside [min, max].
func (s *sampler) bounded(d models.Distribution) float64 {
	if d.Std == 0 {
		return d.Mean
	}
	var v float64
	for i := 0; i < maxRedraws; i++ {
		v = d.Mean + d.Std*s.normal()
		if v >= d.Min && v <= d.Max {
			return v
		}
	}
	return math.Min(math.Max(v, d.Min), d.Max)
}

// ValidateDistribution rejects bounds the sampler cannot draw from.
func ValidateDistribution(name string, d models.Distribution) error {
	for _, v := range []float64{d.Mean, d.Std, d.Min, d.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.InvalidDistribution(name, "parameters must be finite")
		}
	}
	if d.Min >= d.Max {
		return models.InvalidDistribution(name, "min %g must be below max %g", d.Min, d.Max)
	}
	if d.Std < 0 {
		return models.InvalidDistribution(name, "std must not be negative, got %g", d.Std)
	}
	if d.Std == 0 && (d.Mean < d.Min || d.Mean > d.Max) {
		return models.InvalidDistribution(name, "degenerate mean %g lies outside [%g, %g]", d.Mean, d.Min, d.Max)
	}
	return nil
}
