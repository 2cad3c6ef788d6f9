package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/leaderboard"
	"ctchen222/tictactoe/internal/match"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"
)

var (
	tracer = otel.Tracer("session")
	meter  = otel.Meter("session")
)

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionActive   = errors.New("a session is already active")
	ErrMatchInProgress = errors.New("match still in progress")
)

// Seat describes one player of a new session.
type Seat struct {
	Username string          `validate:"required,max=32"`
	Kind     player.Kind     `validate:"required,oneof=human easy medium"`
	Mark     game.PlayerMark `validate:"required,mark"`
}

// Lineup is the pair of players for a session. Player one moves first.
type Lineup struct {
	PlayerOne Seat `validate:"required"`
	PlayerTwo Seat `validate:"required"`
}

// Session is the running sequence of matches between one lineup.
type Session struct {
	ID        string
	StartedAt time.Time
	state     *match.GameState
}

// Manager hosts at most one active session and publishes everything that
// happens in it. All methods are safe for concurrent use.
type Manager struct {
	mu          sync.Mutex
	active      *Session
	leaderboard *leaderboard.Service
	src         bot.Source
	broker      *events.Broker
	publishers  []events.Publisher

	movesPlayed      metric.Int64Counter
	movesRejected    metric.Int64Counter
	matchesCompleted metric.Int64Counter
}

// NewManager creates a manager that records finished sessions on lb. Computer
// players draw from src. Events go to the in-process broker and to every extra
// publisher.
func NewManager(lb *leaderboard.Service, src bot.Source, publishers ...events.Publisher) (*Manager, error) {
	if src == nil {
		src = bot.NewSource(0)
	}
	m := &Manager{
		leaderboard: lb,
		src:         src,
		broker:      events.NewBroker(),
		publishers:  publishers,
	}

	var err error
	if m.movesPlayed, err = meter.Int64Counter("tictactoe.moves.played",
		metric.WithDescription("Moves applied to a board")); err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}
	if m.movesRejected, err = meter.Int64Counter("tictactoe.moves.rejected",
		metric.WithDescription("Human moves rejected as invalid")); err != nil {
		return nil, fmt.Errorf("failed to create rejected moves counter: %w", err)
	}
	if m.matchesCompleted, err = meter.Int64Counter("tictactoe.matches.completed",
		metric.WithDescription("Matches that ended in a win or a tie")); err != nil {
		return nil, fmt.Errorf("failed to create matches counter: %w", err)
	}
	return m, nil
}

// Subscribe returns a stream of session events and a func that closes it.
func (m *Manager) Subscribe() (<-chan events.Event, func()) {
	return m.broker.Subscribe()
}

// Start opens a session for lineup and starts its first match. When a computer
// moves first against a human, its move is played right away.
func (m *Manager) Start(ctx context.Context, lineup Lineup) (proto.SessionView, error) {
	ctx, span := tracer.Start(ctx, "session.Start")
	defer span.End()

	if err := validator.GetValidator().Struct(lineup); err != nil {
		return proto.SessionView{}, fmt.Errorf("%w: %w", match.ErrInvalidLineup, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return proto.SessionView{}, ErrSessionActive
	}

	one, err := player.New(lineup.PlayerOne.Username, lineup.PlayerOne.Mark, lineup.PlayerOne.Kind, m.src)
	if err != nil {
		return proto.SessionView{}, err
	}
	two, err := player.New(lineup.PlayerTwo.Username, lineup.PlayerTwo.Mark, lineup.PlayerTwo.Kind, m.src)
	if err != nil {
		return proto.SessionView{}, err
	}
	state, err := match.New(one, two)
	if err != nil {
		return proto.SessionView{}, err
	}
	state.Start()

	s := &Session{ID: uuid.NewString(), StartedAt: time.Now(), state: state}
	m.active = s
	span.SetAttributes(attribute.String("session.id", s.ID))
	slog.InfoContext(ctx, "session started", "session.id", s.ID,
		"player_one", one.String(), "player_two", two.String())

	m.publish(ctx, events.TypeSessionStarted, events.SessionStartedPayload{
		SessionID: s.ID,
		Usernames: []string{one.Username, two.Username},
	})
	m.playForcedComputerMoves(ctx, s)
	return s.view(), nil
}

// View returns the state of the active session.
func (m *Manager) View(ctx context.Context) (proto.SessionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return proto.SessionView{}, ErrNoActiveSession
	}
	return m.active.view(), nil
}

// Move plays the current human's mark at (row, col). A computer opponent
// answers immediately.
func (m *Manager) Move(ctx context.Context, row, col int) (proto.SessionView, error) {
	ctx, span := tracer.Start(ctx, "session.Move", trace.WithAttributes(
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.active
	if s == nil {
		return proto.SessionView{}, ErrNoActiveSession
	}

	res, err := s.state.AttemptMove(row, col)
	if err != nil {
		if errors.Is(err, game.ErrInvalidMove) {
			m.movesRejected.Add(ctx, 1)
			m.publish(ctx, events.TypeMoveRejected, events.MoveRejectedPayload{
				SessionID: s.ID,
				Row:       row,
				Col:       col,
				Reason:    err.Error(),
			})
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "move rejected")
		return proto.SessionView{}, err
	}
	m.announce(ctx, s, res)
	m.playForcedComputerMoves(ctx, s)
	return s.view(), nil
}

// ComputerMove asks the current computer player to move. This is how a
// computer-versus-computer match advances.
func (m *Manager) ComputerMove(ctx context.Context) (proto.SessionView, error) {
	ctx, span := tracer.Start(ctx, "session.ComputerMove")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.active
	if s == nil {
		return proto.SessionView{}, ErrNoActiveSession
	}
	if err := m.playComputerMove(ctx, s); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "computer move failed")
		return proto.SessionView{}, err
	}
	return s.view(), nil
}

// Rematch clears the board of a finished match and starts the next one with
// player one to move.
func (m *Manager) Rematch(ctx context.Context) (proto.SessionView, error) {
	ctx, span := tracer.Start(ctx, "session.Rematch")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.active
	if s == nil {
		return proto.SessionView{}, ErrNoActiveSession
	}
	if status := s.state.Status(); status != match.Won && status != match.Tied {
		return proto.SessionView{}, ErrMatchInProgress
	}

	s.state.Reset()
	slog.InfoContext(ctx, "rematch started", "session.id", s.ID)
	m.publish(ctx, events.TypeMatchReset, events.MatchResetPayload{
		SessionID: s.ID,
		Next:      s.state.Current().Username,
	})
	m.playForcedComputerMoves(ctx, s)
	return s.view(), nil
}

// End closes the active session and adds its scoreboard to the leaderboard. A
// failed leaderboard write is logged and reported through Saved; the session
// ends either way.
func (m *Manager) End(ctx context.Context) (proto.SessionSummary, error) {
	ctx, span := tracer.Start(ctx, "session.End")
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.active
	if s == nil {
		return proto.SessionSummary{}, ErrNoActiveSession
	}

	scoreboard := s.state.Scoreboard()
	summary := proto.SessionSummary{SessionID: s.ID, Scoreboard: scoreboard, Saved: true}
	if _, err := m.leaderboard.RecordSession(ctx, scoreboard); err != nil {
		slog.ErrorContext(ctx, "failed to record session results", "session.id", s.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "leaderboard write failed")
		summary.Saved = false
	}

	s.state.PlayerOne().Record.Reset()
	s.state.PlayerTwo().Record.Reset()
	m.active = nil

	slog.InfoContext(ctx, "session ended", "session.id", s.ID, "duration", time.Since(s.StartedAt))
	m.publish(ctx, events.TypeSessionEnded, events.SessionEndedPayload{SessionID: s.ID})
	return summary, nil
}

// playForcedComputerMoves lets computers answer while a human waits on them.
// Computer-versus-computer matches are left for the caller to advance.
func (m *Manager) playForcedComputerMoves(ctx context.Context, s *Session) {
	if s.state.PlayerOne().IsComputer() && s.state.PlayerTwo().IsComputer() {
		return
	}
	for s.state.Status() == match.InProgress && s.state.Current().IsComputer() {
		if err := m.playComputerMove(ctx, s); err != nil {
			slog.WarnContext(ctx, "computer could not move", "session.id", s.ID, "error", err)
			return
		}
	}
}

func (m *Manager) playComputerMove(ctx context.Context, s *Session) error {
	current := s.state.Current()
	res, err := s.state.RequestComputerMove()
	if err != nil {
		if errors.Is(err, game.ErrNoMoveAvailable) && current != nil {
			m.publish(ctx, events.TypeNoMoveAvailable, events.NoMoveAvailablePayload{
				SessionID: s.ID,
				Username:  current.Username,
			})
		}
		return err
	}
	m.announce(ctx, s, res)
	return nil
}

func (m *Manager) announce(ctx context.Context, s *Session, res match.Result) {
	m.movesPlayed.Add(ctx, 1, metric.WithAttributes(attribute.String("player.kind", string(res.Player.Kind))))
	m.publish(ctx, events.TypeCellFilled, events.CellFilledPayload{
		SessionID: s.ID,
		Row:       res.Move.Row(),
		Col:       res.Move.Col(),
		Mark:      res.Move.Mark(),
		Username:  res.Player.Username,
	})

	switch res.Status {
	case match.Won:
		m.matchesCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "won")))
		slog.InfoContext(ctx, "match won", "session.id", s.ID, "winner", res.Winner.Username)
		m.publish(ctx, events.TypeMatchWon, events.MatchWonPayload{SessionID: s.ID, Winner: res.Winner.Username})
	case match.Tied:
		m.matchesCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "tied")))
		slog.InfoContext(ctx, "match tied", "session.id", s.ID)
		m.publish(ctx, events.TypeMatchTied, events.MatchTiedPayload{SessionID: s.ID})
	}
}

func (m *Manager) publish(ctx context.Context, eventType string, payload any) {
	event, err := events.New(eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "event.type", eventType, "error", err)
		return
	}
	_ = m.broker.Publish(ctx, event)
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish event", "event.type", eventType, "error", err)
		}
	}
}

func (s *Session) view() proto.SessionView {
	board := s.state.Board()
	history := board.History()
	moves := make([]proto.MoveView, len(history))
	for i, mv := range history {
		moves[i] = proto.MoveView{Row: mv.Row(), Col: mv.Col(), Mark: mv.Mark()}
	}

	v := proto.SessionView{
		SessionID:  s.ID,
		Status:     string(s.state.Status()),
		Board:      board.BoardAsStrings(),
		History:    moves,
		Scoreboard: s.state.Scoreboard(),
	}
	if s.state.Status() == match.InProgress {
		v.Next = s.state.Current().Username
	}
	if w := s.state.Winner(); w != nil {
		v.Winner = w.Username
	}
	for _, p := range []*player.Player{s.state.PlayerOne(), s.state.PlayerTwo()} {
		v.Players = append(v.Players, proto.PlayerView{
			Username: p.Username,
			Mark:     p.Mark,
			Kind:     p.Kind,
			Record:   p.Record,
		})
	}
	return v
}
