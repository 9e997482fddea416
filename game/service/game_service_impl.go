package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/card-match-game/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	levels    LevelManager
	publisher EventPublisher
	logger    *zap.Logger
	mu        sync.RWMutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *gameServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventPublisher forwards every committed change to p
func WithEventPublisher(p EventPublisher) Option {
	return func(s *gameServiceImpl) {
		s.publisher = p
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session on the given level
func (s *gameServiceImpl) CreateSession(ctx context.Context, levelID int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var level *engine.LevelConfig
	if levelID == DefaultLevel {
		level = s.levels.GetDefault()
	} else {
		var err error
		level, err = s.levels.LoadLevel(levelID)
		if err != nil {
			return nil, s.levelError(levelID, err)
		}
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", level)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.Int("level_id", level.LevelID),
	)

	return sessionInfo(sess, sess.CreatedAt), nil
}

// levelError adds the available level ids to a level lookup failure
func (s *gameServiceImpl) levelError(levelID int, err error) error {
	available, listErr := s.levels.ListLevels()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("failed to load level %d: %w", levelID, err)
	}
	ids := make([]int, 0, len(available))
	for _, l := range available {
		ids = append(ids, l.LevelID)
	}
	return fmt.Errorf("failed to load level %d (available levels: %v): %w", levelID, ids, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, lastAccessed, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess, lastAccessed), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		lastAccessed, err := s.sessions.LastAccessed(sess.ID)
		if err != nil {
			// Expired while listing
			continue
		}
		result = append(result, sessionInfo(sess, lastAccessed))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	s.logger.Info("session deleted", zap.String("session_id", sessionID))
	return nil
}

// ClickCard routes a click to the session's engine. Rejected clicks are
// reported in the result, not as errors.
func (s *gameServiceImpl) ClickCard(ctx context.Context, sessionID string, cardID int) (*ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	move, err := sess.Engine.Click(cardID)
	if err != nil {
		if !engine.IsRejection(err) {
			s.logger.Error("click failed",
				zap.String("session_id", sess.ID),
				zap.Int("card_id", cardID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to click card %d: %w", cardID, err)
		}

		reason := engine.RejectionReason(err)
		s.logger.Debug("click rejected",
			zap.String("session_id", sess.ID),
			zap.Int("card_id", cardID),
			zap.String("reason", reason),
		)
		board := sess.Engine.View()
		return &ClickResult{
			Success: false,
			Reason:  reason,
			Message: rejectionMessage(reason, cardID),
			CardID:  cardID,
			Board:   &board,
		}, nil
	}

	board := sess.Engine.View()
	s.publish(EventMessage{
		SessionID: sess.ID,
		Type:      MessageMoveCommitted,
		Events:    move.Events,
		Board:     &board,
	})

	s.logger.Info("move committed",
		zap.String("session_id", sess.ID),
		zap.Int("sequence", move.Record.Sequence),
		zap.Stringer("kind", move.Record.Kind),
		zap.Int("card_id", cardID),
		zap.Int("consumed_id", move.Record.ConsumedStackTopID),
		zap.Stringer("status", move.Status),
	)

	record := move.Record
	return &ClickResult{
		Success: true,
		Message: moveMessage(record, move.Status),
		CardID:  cardID,
		Move:    &record,
		Events:  move.Events,
		Board:   &board,
	}, nil
}

// Undo reverses the session's most recent committed move
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*UndoResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	undo, err := sess.Engine.Undo()
	if err != nil {
		if !engine.IsRejection(err) {
			s.logger.Error("undo failed", zap.String("session_id", sess.ID), zap.Error(err))
			return nil, fmt.Errorf("failed to undo: %w", err)
		}
		board := sess.Engine.View()
		return &UndoResult{
			Success: false,
			Reason:  engine.RejectionReason(err),
			Message: "Nothing to undo",
			Board:   &board,
		}, nil
	}

	board := sess.Engine.View()
	s.publish(EventMessage{
		SessionID: sess.ID,
		Type:      MessageUndoCompleted,
		Events:    undo.Events,
		Board:     &board,
	})

	s.logger.Info("move undone",
		zap.String("session_id", sess.ID),
		zap.Int("sequence", undo.Record.Sequence),
		zap.Int("card_id", undo.Record.MovedCardID),
	)

	record := undo.Record
	return &UndoResult{
		Success: true,
		Message: fmt.Sprintf("Undid move %d (card %d)", record.Sequence, record.MovedCardID),
		Undone:  &record,
		Events:  undo.Events,
		Board:   &board,
	}, nil
}

// Restart rebuilds the session's board from its level
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	return s.control(sessionID, "restarted", func(e *engine.GameEngine) {
		e.Restart()
	})
}

// Start marks the session's idle game as playing
func (s *gameServiceImpl) Start(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	return s.control(sessionID, "started", (*engine.GameEngine).Start)
}

// Pause suspends the session's game
func (s *gameServiceImpl) Pause(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	return s.control(sessionID, "paused", (*engine.GameEngine).Pause)
}

// Resume continues the session's paused game
func (s *gameServiceImpl) Resume(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	return s.control(sessionID, "resumed", (*engine.GameEngine).Resume)
}

// control applies a status change and broadcasts the resulting board
func (s *gameServiceImpl) control(sessionID, action string, apply func(*engine.GameEngine)) (*engine.BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, _, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	apply(sess.Engine)
	board := sess.Engine.View()

	s.publish(EventMessage{
		SessionID: sess.ID,
		Type:      MessageBoardUpdate,
		Board:     &board,
	})
	s.logger.Info("game "+action,
		zap.String("session_id", sess.ID),
		zap.Stringer("status", board.Status),
	)

	return &board, nil
}

// GetBoard returns a snapshot of the session's board
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, _, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	board := sess.Engine.View()
	return &board, nil
}

// GetUndoHistory returns a page of the session's undo history
func (s *gameServiceImpl) GetUndoHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, _, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return paginateHistory(sess.Engine.History(), opts), nil
}

// paginateHistory slices records (oldest first) into the requested page
func paginateHistory(history []engine.MoveRecord, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// GetHints lists the cards whose click would currently commit
func (s *gameServiceImpl) GetHints(ctx context.Context, sessionID string) (*HintsResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, _, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	legal := sess.Engine.LegalMoves()
	hints := &HintsResponse{
		LegalMoves: []int{},
		Cards:      []engine.Card{},
		Stuck:      isStuck(sess.Engine),
		CanUndo:    sess.Engine.CanUndo(),
		Status:     sess.Engine.Status(),
	}
	for _, id := range legal {
		if card, ok := sess.Engine.FindCard(id); ok {
			hints.LegalMoves = append(hints.LegalMoves, id)
			hints.Cards = append(hints.Cards, card)
		}
	}
	if top, ok := sess.Engine.TopOfStack(); ok {
		hints.TopCard = &top
	}

	return hints, nil
}

// isStuck reports whether a game that is not over has no committing click.
// A paused game is judged as if it were resumed.
func isStuck(e *engine.GameEngine) bool {
	switch e.Status() {
	case engine.StatusGameOver:
		return false
	case engine.StatusPaused:
		paused := e.Board().Clone()
		paused.SetStatus(engine.StatusPlaying)
		return !engine.HasLegalMove(paused)
	default:
		return !engine.HasLegalMove(e.Board())
	}
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel returns one level by id
func (s *gameServiceImpl) LoadLevel(ctx context.Context, levelID int) (*engine.LevelConfig, error) {
	return s.levels.LoadLevel(levelID)
}

// SaveLevel validates and stores a level
func (s *gameServiceImpl) SaveLevel(ctx context.Context, level *engine.LevelConfig) error {
	if err := s.levels.SaveLevel(level); err != nil {
		return err
	}
	s.logger.Info("level saved", zap.Int("level_id", level.LevelID))
	return nil
}

// getSession looks a session up and refreshes its access time. The time
// is returned because readers holding only s.mu.RLock may not read
// Session.LastAccessedAt directly.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, time.Time, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("session not found: %w", err)
	}
	lastAccessed, err := s.sessions.UpdateLastAccessed(sessionID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("session not found: %w", err)
	}
	return sess, lastAccessed, nil
}

// publish forwards msg to the configured publisher, if any
func (s *gameServiceImpl) publish(msg EventMessage) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(msg)
}

func sessionInfo(sess *Session, lastAccessed time.Time) *SessionInfo {
	board := sess.Engine.View()
	levelID := 0
	if sess.Level != nil {
		levelID = sess.Level.LevelID
	}
	return &SessionInfo{
		ID:             sess.ID,
		LevelID:        levelID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: lastAccessed,
		Board:          &board,
		UndoDepth:      sess.Engine.UndoDepth(),
	}
}

func moveMessage(rec engine.MoveRecord, status engine.Status) string {
	var msg string
	switch rec.Kind {
	case engine.MovePlayfieldToStack:
		msg = fmt.Sprintf("Card %d matched and replaced card %d on the stack", rec.MovedCardID, rec.ConsumedStackTopID)
	default:
		msg = fmt.Sprintf("Card %d promoted to the top of the stack, card %d discarded", rec.MovedCardID, rec.ConsumedStackTopID)
	}
	if status == engine.StatusGameOver {
		msg += ". Playfield cleared!"
	}
	return msg
}

func rejectionMessage(reason string, cardID int) string {
	switch reason {
	case ReasonNoSuchCard:
		return fmt.Sprintf("Card %d does not exist", cardID)
	case ReasonIllegalMove:
		return fmt.Sprintf("Card %d cannot be played right now", cardID)
	case ReasonEmptyStack:
		return "The stack is empty"
	case ReasonGamePaused:
		return "The game is paused"
	case ReasonGameOver:
		return "The game is over"
	default:
		return "Click rejected"
	}
}
