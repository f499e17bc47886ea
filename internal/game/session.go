// Package game runs one checkers game: turn order, human selections, bot turns and
// the observers watching it.
package game

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/exp/maps"

	"github.com/benbeisheim/checkers-backend/internal/bot"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/rules"
	"github.com/benbeisheim/checkers-backend/internal/ws"
)

// Config selects who plays each side and how bot turns are paced.
type Config struct {
	Light    model.Controller
	Dark     model.Controller
	BotDelay time.Duration
	// QuietPlyLimit declares a draw after that many consecutive turns without a
	// capture or promotion. Zero disables the rule.
	QuietPlyLimit int
	// Seed feeds the bot strategies. Zero picks a time-based seed.
	Seed uint64
}

type Session struct {
	ID    string
	Owner string

	mu          sync.Mutex
	board       *model.Board
	controllers map[model.Side]model.Controller
	engines     map[model.Side]*bot.Engine
	clocks      map[model.Side]*model.Clock
	scores      map[model.Side]int
	toMove      model.Side
	status      model.GameState
	history     []model.Ply

	// mustCapture holds the capture map of every piece of the side to move that
	// can capture. During a chain it holds only the chaining piece.
	mustCapture map[model.Position]map[model.Position]model.Capture
	selected    *model.Position
	chain       bool
	progress    bool

	quietTurns    int
	quietPlyLimit int
	botDelay      time.Duration
	botRunning    bool

	connections *Connections
}

func NewSession(id, owner string, cfg Config) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	s := &Session{
		ID:    id,
		Owner: owner,
		board: model.NewStandardBoard(),
		controllers: map[model.Side]model.Controller{
			model.Light: cfg.Light,
			model.Dark:  cfg.Dark,
		},
		engines: make(map[model.Side]*bot.Engine),
		clocks: map[model.Side]*model.Clock{
			model.Light: model.NewClock(),
			model.Dark:  model.NewClock(),
		},
		scores:        map[model.Side]int{model.Light: 0, model.Dark: 0},
		toMove:        model.Light,
		status:        model.InProgress,
		quietPlyLimit: cfg.QuietPlyLimit,
		botDelay:      cfg.BotDelay,
		connections:   NewConnections(),
	}
	for i, side := range []model.Side{model.Light, model.Dark} {
		c := s.controllers[side]
		if c.IsBot() {
			s.engines[side] = bot.NewEngine(side, bot.NewStrategy(c.Difficulty, bot.NewRand(seed+uint64(i))))
		}
	}
	s.beginTurn()
	return s
}

// Awaiting describes the input the session expects from the human side to move.
type Awaiting struct {
	Side        model.Side       `json:"side"`
	Selected    *model.Position  `json:"selected"`
	Targets     []model.Position `json:"targets"`
	MustCapture []model.Position `json:"mustCapture"`
	Chain       bool             `json:"chain"`
}

// State is the client view of a session.
type State struct {
	ID          string                            `json:"id"`
	Board       [][]*model.Piece                  `json:"board"`
	ToMove      model.Side                        `json:"toMove"`
	Status      model.GameState                   `json:"status"`
	Players     map[model.Side]model.ClientPlayer `json:"players"`
	Awaiting    *Awaiting                         `json:"awaiting"`
	History     []model.Ply                       `json:"history"`
	LastPly     *model.Ply                        `json:"lastPly"`
	BotThinking bool                              `json:"botThinking"`
}

func (s *Session) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	players := make(map[model.Side]model.ClientPlayer, 2)
	for _, side := range []model.Side{model.Light, model.Dark} {
		players[side] = model.ClientPlayer{
			Side:       side,
			Controller: s.controllers[side],
			Score:      s.scores[side],
			TimeUsed:   s.clocks[side].Used().Milliseconds(),
		}
	}

	st := State{
		ID:          s.ID,
		Board:       s.board.Grid(),
		ToMove:      s.toMove,
		Status:      s.status,
		Players:     players,
		History:     append([]model.Ply(nil), s.history...),
		BotThinking: s.botRunning,
	}
	if n := len(s.history); n > 0 {
		last := s.history[n-1]
		st.LastPly = &last
	}
	if !s.status.Over() && !s.controllers[s.toMove].IsBot() {
		a := s.awaiting()
		st.Awaiting = &a
	}
	return st
}

func (s *Session) awaiting() Awaiting {
	a := Awaiting{
		Side:        s.toMove,
		Targets:     []model.Position{},
		MustCapture: sortedPositions(maps.Keys(s.mustCapture)),
		Chain:       s.chain,
	}
	if s.selected != nil {
		selected := *s.selected
		a.Selected = &selected
		a.Targets = s.targets(selected)
	}
	return a
}

// targets are the destinations the selected piece may be moved to.
func (s *Session) targets(from model.Position) []model.Position {
	if len(s.mustCapture) > 0 {
		return sortedPositions(maps.Keys(s.mustCapture[from]))
	}
	return rules.GetSimpleMoves(s.board, from)
}

// Options lists what the piece on a cell could do, ignoring whose turn it is.
type Options struct {
	Position model.Position   `json:"position"`
	Moves    []model.Position `json:"moves"`
	Captures []model.Capture  `json:"captures"`
	// Mandatory is set when the side owning the piece has a capture somewhere.
	Mandatory bool `json:"mandatory"`
}

func (s *Session) Options(pos model.Position) (Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, ok := s.board.Lookup(pos)
	if !ok {
		return Options{}, fmt.Errorf("%w: %s is off the board", ErrIllegalSelection, pos)
	}
	opts := Options{
		Position: pos,
		Moves:    rules.GetSimpleMoves(s.board, pos),
		Captures: rules.Captures(s.board, pos),
	}
	if opts.Captures == nil {
		opts.Captures = []model.Capture{}
	}
	if cell.Piece != nil {
		opts.Mandatory = len(rules.SideCaptureMap(s.board, cell.Piece.Side)) > 0
	}
	return opts, nil
}

// Outcome is what a selection did.
type Outcome string

const (
	Selected Outcome = "selected"
	Moved    Outcome = "moved"
	Captured Outcome = "captured"
)

type SelectionResult struct {
	Outcome Outcome    `json:"outcome"`
	Ply     *model.Ply `json:"ply,omitempty"`
	// TurnOver is false while a multi-jump chain continues.
	TurnOver bool            `json:"turnOver"`
	Status   model.GameState `json:"status"`
}

// SubmitSelection applies one click of the human side to move: pick one of its pieces,
// or a highlighted destination of the selected piece. Rejected selections leave the
// session unchanged.
func (s *Session) SubmitSelection(pos model.Position) (SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.Over() {
		return SelectionResult{}, ErrGameOver
	}
	if s.controllers[s.toMove].IsBot() {
		return SelectionResult{}, ErrNotYourTurn
	}
	cell, ok := s.board.Lookup(pos)
	if !ok {
		return SelectionResult{}, fmt.Errorf("%w: %s is off the board", ErrIllegalSelection, pos)
	}

	if s.selected != nil {
		from := *s.selected
		if len(s.mustCapture) > 0 {
			if c, ok := s.mustCapture[from][pos]; ok {
				return s.capture(c), nil
			}
		} else if containsPosition(rules.GetSimpleMoves(s.board, from), pos) {
			return s.move(model.Move{From: from, To: pos}), nil
		}
	}

	if cell.Piece == nil || cell.Piece.Side != s.toMove {
		return SelectionResult{}, fmt.Errorf("%w: nothing to do at %s", ErrIllegalSelection, pos)
	}
	if s.chain {
		return SelectionResult{}, fmt.Errorf("%w: the piece on %s must keep capturing", ErrIllegalSelection, *s.selected)
	}
	if len(s.mustCapture) > 0 {
		if _, ok := s.mustCapture[pos]; !ok {
			return SelectionResult{}, fmt.Errorf("%w: capture is mandatory", ErrIllegalSelection)
		}
	} else if len(rules.GetSimpleMoves(s.board, pos)) == 0 {
		return SelectionResult{}, fmt.Errorf("%w: piece on %s cannot move", ErrIllegalSelection, pos)
	}

	selected := pos
	s.selected = &selected
	return SelectionResult{Outcome: Selected, Status: s.status}, nil
}

func (s *Session) move(m model.Move) SelectionResult {
	promoted := rules.ExecuteSimpleMove(s.board, m.From, m.To)
	ply := model.NewMovePly(s.toMove, m, promoted)
	s.record(ply, nil)
	s.endTurn()
	return SelectionResult{Outcome: Moved, Ply: &ply, TurnOver: true, Status: s.status}
}

func (s *Session) capture(c model.Capture) SelectionResult {
	res := rules.ExecuteCapture(s.board, c.From, c.Captured, c.To)
	ply := model.NewCapturePly(s.toMove, c, res.Promoted)
	s.record(ply, &res.Removed)

	if next := rules.GetCaptureMap(s.board, c.To); len(next) > 0 {
		landed := c.To
		s.selected = &landed
		s.chain = true
		s.mustCapture = map[model.Position]map[model.Position]model.Capture{landed: next}
		return SelectionResult{Outcome: Captured, Ply: &ply, Status: s.status}
	}
	s.endTurn()
	return SelectionResult{Outcome: Captured, Ply: &ply, TurnOver: true, Status: s.status}
}

// record appends an executed step to history and credits captures.
func (s *Session) record(ply model.Ply, removed *model.Piece) {
	s.history = append(s.history, ply)
	if removed != nil {
		s.scores[ply.Side]++
	}
	if ply.IsCapture() || ply.Promoted {
		s.progress = true
	}
}

func (s *Session) beginTurn() {
	s.selected = nil
	s.chain = false
	s.progress = false
	s.mustCapture = rules.SideCaptureMap(s.board, s.toMove)
	s.clocks[s.toMove].Start()
}

func (s *Session) endTurn() {
	s.clocks[s.toMove].Stop()
	s.selected = nil
	s.chain = false
	s.mustCapture = nil

	if s.progress {
		s.quietTurns = 0
	} else {
		s.quietTurns++
	}

	s.status = rules.CheckGameState(s.board, s.board.Cells())
	if s.status == model.InProgress && s.quietPlyLimit > 0 && s.quietTurns >= s.quietPlyLimit {
		s.status = model.Draw
	}
	if s.status.Over() {
		log.Infof("game %s finished: %s", s.ID, s.status)
		return
	}

	s.toMove = s.toMove.Opponent()
	s.beginTurn()
}

// BotToMove reports whether a bot is due to play.
func (s *Session) BotToMove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.status.Over() && s.controllers[s.toMove].IsBot()
}

// PlayBotTurns plays bot turns one step at a time until a human is to move or the game
// is over, broadcasting after every step. ctx is checked between turns only.
func (s *Session) PlayBotTurns(ctx context.Context) error {
	s.mu.Lock()
	if s.botRunning {
		s.mu.Unlock()
		return ErrBotBusy
	}
	s.botRunning = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		// Cleared under the lock that observes a human to move.
		if err := ctx.Err(); err != nil {
			s.botRunning = false
			s.mu.Unlock()
			return err
		}
		if s.status.Over() || !s.controllers[s.toMove].IsBot() {
			s.botRunning = false
			s.mu.Unlock()
			s.Broadcast()
			return nil
		}
		turn := s.engines[s.toMove].BeginTurn(s.board, s.board.Cells())
		s.mu.Unlock()

		s.playBotTurn(turn)
	}
}

func (s *Session) playBotTurn(turn *bot.Turn) {
	for {
		s.pause()

		s.mu.Lock()
		step, ok := turn.Step()
		if ok {
			s.record(step.Ply, step.Removed)
		}
		s.mu.Unlock()

		if !ok || turn.Done() {
			break
		}
		s.Broadcast()
	}

	s.mu.Lock()
	if turn.Report().NoMove {
		log.Warnf("game %s: bot %s has no legal move", s.ID, s.toMove)
	}
	s.endTurn()
	s.mu.Unlock()
	s.Broadcast()
}

func (s *Session) pause() {
	if s.botDelay > 0 {
		time.Sleep(s.botDelay)
	}
}

func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	if err := s.connections.Add(playerID, conn); err != nil {
		return err
	}
	return s.sendState()
}

func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.Remove(playerID, conn)
}

// Broadcast pushes the current state to every observer.
func (s *Session) Broadcast() {
	if err := s.sendState(); err != nil {
		log.Errorf("game %s: broadcast failed: %v", s.ID, err)
	}
}

func (s *Session) sendState() error {
	return s.connections.Broadcast(ws.MessageTypeGameState, s.GetState())
}

func containsPosition(ps []model.Position, p model.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

// sortedPositions orders cells row-major, the order clients lay the board out in.
func sortedPositions(ps []model.Position) []model.Position {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
	if ps == nil {
		return []model.Position{}
	}
	return ps
}
