package bot

import (
	"golang.org/x/exp/rand"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

// Strategy orders candidates best first. All candidates passed in one call belong to
// side and are either all captures or all simple moves.
type Strategy interface {
	Rank(b *model.Board, side model.Side, cands []Candidate) []Candidate
}

// NewStrategy returns the strategy for a difficulty tier. Unknown tiers fall back to Mid.
func NewStrategy(d model.Difficulty, rng *rand.Rand) Strategy {
	switch d {
	case model.Low:
		return NewRandomStrategy(rng)
	case model.High:
		return NewWeightedStrategy(HighWeights(), rng)
	default:
		return NewWeightedStrategy(MidWeights(), rng)
	}
}

// NewRand returns a seeded source for strategies.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomStrategy picks uniformly among the candidates.
type RandomStrategy struct {
	rng *rand.Rand
}

func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng}
}

func (s *RandomStrategy) Rank(_ *model.Board, _ model.Side, cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	copy(out, cands)
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
