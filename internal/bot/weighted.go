package bot

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/benbeisheim/checkers-backend/internal/model"
)

// Weights parameterises the one-ply positional evaluation shared by the mid and high
// tiers. A zero weight switches its factor off.
type Weights struct {
	CaptureBase       float64
	ManValue          float64
	QueenValue        float64
	AdvancementPerRow float64
	CenterBonus       float64
	InnerCenterBonus  float64
	EdgePenalty       float64
	QueenBonus        float64

	VulnerabilityPenalty float64
	QueenThreatFactor    float64

	// Promotion-row bonuses for men: landing on it by capture, by simple move, and
	// proximity for simple moves that stop short of it.
	PromotionCaptureBonus float64
	PromotionMoveBonus    float64
	PromotionProximity    float64

	ThreatBonus      float64
	ThreatValueShare float64
	SafetyBonus      float64
	MaterialBonus    float64

	// Jitter is the +/- fraction of the raw score added at random; JitterFloor is the
	// magnitude used instead of the score when the score is smaller.
	Jitter      float64
	JitterFloor float64
}

func MidWeights() Weights {
	return Weights{
		CaptureBase:          100,
		AdvancementPerRow:    10,
		CenterBonus:          5,
		EdgePenalty:          -5,
		QueenBonus:           20,
		VulnerabilityPenalty: -30,
		QueenThreatFactor:    1.5,
		Jitter:               0.1,
		JitterFloor:          10,
	}
}

func HighWeights() Weights {
	return Weights{
		CaptureBase:           200,
		ManValue:              15,
		QueenValue:            45,
		AdvancementPerRow:     12,
		CenterBonus:           8,
		InnerCenterBonus:      4,
		EdgePenalty:           -8,
		QueenBonus:            25,
		VulnerabilityPenalty:  -50,
		QueenThreatFactor:     1.5,
		PromotionCaptureBonus: 30,
		PromotionMoveBonus:    45,
		PromotionProximity:    15,
		ThreatBonus:           30,
		ThreatValueShare:      0.3,
		SafetyBonus:           10,
		MaterialBonus:         10,
		Jitter:                0.05,
		JitterFloor:           5,
	}
}

// WeightedStrategy scores every candidate with Weights and ranks by score, highest
// first. Equal scores keep enumeration order.
type WeightedStrategy struct {
	weights Weights
	rng     *rand.Rand
}

func NewWeightedStrategy(w Weights, rng *rand.Rand) *WeightedStrategy {
	return &WeightedStrategy{weights: w, rng: rng}
}

func (s *WeightedStrategy) Weights() Weights {
	return s.weights
}

func (s *WeightedStrategy) Rank(b *model.Board, side model.Side, cands []Candidate) []Candidate {
	out := make([]Candidate, len(cands))
	for i, c := range cands {
		c.Score = s.jitter(s.Evaluate(b, side, c))
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (s *WeightedStrategy) jitter(score float64) float64 {
	if s.weights.Jitter == 0 || s.rng == nil {
		return score
	}
	spread := math.Max(math.Abs(score), s.weights.JitterFloor) * s.weights.Jitter
	return score + (s.rng.Float64()*2-1)*spread
}

// Evaluate returns the deterministic part of a candidate's score.
func (s *WeightedStrategy) Evaluate(b *model.Board, side model.Side, c Candidate) float64 {
	w := s.weights
	mover := b.PieceAt(c.From)
	after := hypothetical(b, c)

	var score, victimValue float64
	if c.IsCapture() {
		victimValue = w.pieceValue(b.PieceAt(*c.Captured))
		score += w.CaptureBase + victimValue
	}
	score += w.position(side, mover, c.To)
	score += w.promotion(side, mover, c)
	score += w.vulnerability(after, side, c.To)
	score += w.threats(after, side, c.To)
	if c.IsCapture() {
		score += w.material(b, side, victimValue)
	} else {
		score += w.safety(b, after, side, c)
	}
	return score
}

func (w Weights) pieceValue(p *model.Piece) float64 {
	if p == nil {
		return 0
	}
	if p.IsQueen() {
		return w.QueenValue
	}
	return w.ManValue
}

func (w Weights) position(side model.Side, mover *model.Piece, to model.Position) float64 {
	score := float64(advancement(side, to)) * w.AdvancementPerRow
	if inCenter(to) {
		score += w.CenterBonus
		if inInnerCenter(to) {
			score += w.InnerCenterBonus
		}
	}
	if onEdge(to) {
		score += w.EdgePenalty
	}
	if mover.IsQueen() {
		score += w.QueenBonus
	}
	return score
}

func (w Weights) promotion(side model.Side, mover *model.Piece, c Candidate) float64 {
	if mover.IsQueen() {
		return 0
	}
	promotionRow := side.PromotionRow()
	if c.IsCapture() {
		if c.To.Y == promotionRow {
			return w.PromotionCaptureBonus
		}
		return 0
	}
	if c.To.Y == promotionRow {
		return w.PromotionMoveBonus
	}
	distance := abs(promotionRow - c.To.Y)
	return w.PromotionProximity * float64(model.BoardSize-distance) / model.BoardSize
}

func (w Weights) vulnerability(v view, side model.Side, at model.Position) float64 {
	threatened, byQueen := vulnerable(v, side, at)
	if !threatened {
		return 0
	}
	if byQueen {
		return w.VulnerabilityPenalty * w.QueenThreatFactor
	}
	return w.VulnerabilityPenalty
}

func (w Weights) threats(v view, side model.Side, at model.Position) float64 {
	if w.ThreatBonus == 0 {
		return 0
	}
	var score float64
	for _, dir := range model.Diagonals {
		target, landing := at.Add(dir), at.Step(dir, 2)
		if !landing.InBounds() {
			continue
		}
		enemy := v.at(target)
		if enemy == nil || enemy.Side == side || v.at(landing) != nil {
			continue
		}
		score += w.ThreatBonus + w.pieceValue(enemy)*w.ThreatValueShare
	}
	return score
}

// safety rewards leaving a threatened cell for a safe one.
func (w Weights) safety(b *model.Board, after view, side model.Side, c Candidate) float64 {
	if w.SafetyBonus == 0 {
		return 0
	}
	before, _ := vulnerable(view{b: b}, side, c.From)
	now, _ := vulnerable(after, side, c.To)
	if before && !now {
		return w.SafetyBonus
	}
	return 0
}

// material recounts both sides and pays a bonus when side is ahead after the capture.
func (w Weights) material(b *model.Board, side model.Side, victimValue float64) float64 {
	if w.MaterialBonus == 0 {
		return 0
	}
	ownMen, ownQueens := b.Count(side)
	enemyMen, enemyQueens := b.Count(side.Opponent())
	own := float64(ownMen)*w.ManValue + float64(ownQueens)*w.QueenValue
	enemy := float64(enemyMen)*w.ManValue + float64(enemyQueens)*w.QueenValue - victimValue
	if own-enemy > 0 {
		return w.MaterialBonus
	}
	return 0
}

// view reads the board as if a candidate had been played.
type view struct {
	b        *model.Board
	from     *model.Position
	to       *model.Position
	captured *model.Position
	mover    *model.Piece
}

func hypothetical(b *model.Board, c Candidate) view {
	from, to := c.From, c.To
	return view{b: b, from: &from, to: &to, captured: c.Captured, mover: b.PieceAt(c.From)}
}

func (v view) at(p model.Position) *model.Piece {
	switch {
	case v.to != nil && p == *v.to:
		return v.mover
	case v.from != nil && p == *v.from:
		return nil
	case v.captured != nil && p == *v.captured:
		return nil
	}
	return v.b.PieceAt(p)
}

// vulnerable is the one-ply threat heuristic: an enemy two cells away along a diagonal
// with the cell between empty. Enemy men only count when that diagonal runs in their
// forward direction. The enemy's own safety is not considered.
func vulnerable(v view, side model.Side, at model.Position) (threatened, byQueen bool) {
	for _, dir := range model.Diagonals {
		between, enemyAt := at.Add(dir), at.Step(dir, 2)
		if !enemyAt.InBounds() {
			continue
		}
		enemy := v.at(enemyAt)
		if enemy == nil || enemy.Side == side || v.at(between) != nil {
			continue
		}
		if enemy.IsQueen() {
			return true, true
		}
		if (at.Y-enemyAt.Y)*enemy.Side.Forward() > 0 {
			return true, false
		}
	}
	return false, false
}

// advancement is how many rows to lies from side's home row.
func advancement(side model.Side, to model.Position) int {
	return abs(to.Y - side.HomeRow())
}

func inCenter(p model.Position) bool {
	return p.X >= 2 && p.X <= 5 && p.Y >= 2 && p.Y <= 5
}

func inInnerCenter(p model.Position) bool {
	return p.X >= 3 && p.X <= 4 && p.Y >= 3 && p.Y <= 4
}

func onEdge(p model.Position) bool {
	last := model.BoardSize - 1
	return p.X == 0 || p.X == last || p.Y == 0 || p.Y == last
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
