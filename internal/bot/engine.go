// Package bot picks and plays a turn for a computer-controlled side.
package bot

import (
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/rules"
)

// Engine plays turns for one side using an injectable Strategy.
type Engine struct {
	side     model.Side
	strategy Strategy
}

func NewEngine(side model.Side, strategy Strategy) *Engine {
	return &Engine{side: side, strategy: strategy}
}

func (e *Engine) Side() model.Side {
	return e.side
}

// GenerateAndScoreCandidates returns the ranked captures of every piece of the engine's
// side, or its ranked simple moves when no capture exists.
func (e *Engine) GenerateAndScoreCandidates(b *model.Board, cells []*model.Cell) []Candidate {
	if captures := captureCandidates(b, e.side, cells); len(captures) > 0 {
		return e.strategy.Rank(b, e.side, captures)
	}
	return e.strategy.Rank(b, e.side, moveCandidates(b, e.side, cells))
}

// TurnReport summarises a completed bot turn.
type TurnReport struct {
	Side     model.Side    `json:"side"`
	Plies    []model.Ply   `json:"plies"`
	Captured []model.Piece `json:"captured"`
	NoMove   bool          `json:"noMove"`
}

// DecideAndPlayTurn plays a whole turn, including any multi-jump chain, on b.
// A side without candidates makes no move and the report says so.
func (e *Engine) DecideAndPlayTurn(b *model.Board, cells []*model.Cell) TurnReport {
	t := e.BeginTurn(b, cells)
	for {
		if _, ok := t.Step(); !ok {
			break
		}
	}
	return t.Report()
}

// BeginTurn starts a turn that is advanced one executed step at a time.
func (e *Engine) BeginTurn(b *model.Board, cells []*model.Cell) *Turn {
	return &Turn{
		engine: e,
		board:  b,
		cells:  cells,
		report: TurnReport{Side: e.side},
	}
}

// Step is one executed move or jump of a bot turn.
type Step struct {
	Candidate Candidate
	Ply       model.Ply
	Removed   *model.Piece
	// Continues is set when the moved piece must capture again this turn.
	Continues bool
}

// Turn is a bot turn in progress: pick, execute, then jump again while the moved
// piece still has captures.
type Turn struct {
	engine *Engine
	board  *model.Board
	cells  []*model.Cell
	chain  *model.Position
	done   bool
	report TurnReport
}

// Step executes the next move of the turn. It returns false once the turn is over.
func (t *Turn) Step() (Step, bool) {
	if t.done {
		return Step{}, false
	}

	var ranked []Candidate
	if t.chain != nil {
		ranked = t.engine.strategy.Rank(t.board, t.engine.side, pieceCaptureCandidates(t.board, *t.chain))
	} else {
		ranked = t.engine.GenerateAndScoreCandidates(t.board, t.cells)
	}
	if len(ranked) == 0 {
		t.done = true
		t.report.NoMove = t.chain == nil && len(t.report.Plies) == 0
		if t.report.NoMove {
			log.Debugf("bot %s: no legal move", t.engine.side)
		}
		return Step{}, false
	}

	best := ranked[0]
	step := t.execute(best)
	log.Debugf("bot %s: %s score=%.1f", t.engine.side, step.Ply.Notation, best.Score)
	return step, true
}

func (t *Turn) execute(c Candidate) Step {
	side := t.engine.side
	if !c.IsCapture() {
		promoted := rules.ExecuteSimpleMove(t.board, c.From, c.To)
		ply := model.NewMovePly(side, c.Move(), promoted)
		t.report.Plies = append(t.report.Plies, ply)
		t.done = true
		return Step{Candidate: c, Ply: ply}
	}

	res := rules.ExecuteCapture(t.board, c.From, *c.Captured, c.To)
	ply := model.NewCapturePly(side, c.Capture(), res.Promoted)
	t.report.Plies = append(t.report.Plies, ply)
	t.report.Captured = append(t.report.Captured, res.Removed)

	removed := res.Removed
	step := Step{Candidate: c, Ply: ply, Removed: &removed}
	if len(rules.Captures(t.board, c.To)) > 0 {
		landed := c.To
		t.chain = &landed
		step.Continues = true
	} else {
		t.chain = nil
		t.done = true
	}
	return step
}

// Done reports whether the turn has finished.
func (t *Turn) Done() bool {
	return t.done
}

func (t *Turn) Report() TurnReport {
	return t.report
}
