package board

import (
	"commandcenter/source/metrics"
	"commandcenter/source/schemas"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// COMMIT_TIMEOUT bounds a stage write. Commits are not tied to the session
// context: once issued they run to completion even if the browser goes away.
const COMMIT_TIMEOUT = 20 * time.Second

const outboundBuffer = 64

// Conn is the message transport of a session. *websocket.Conn satisfies it.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Session is one open board: it owns a State, a Controller and a Writer for
// as long as the connection lives. Board and controller changes happen on the
// Run goroutine only; gateway writes run on their own goroutines and hand
// their outcome back to it.
type Session struct {
	id         string
	conn       Conn
	board      *State
	controller *Controller
	log        *log.Entry

	outbound chan schemas.BoardServerMessage
	settled  chan *Commit
	done     chan struct{}
	commits  sync.WaitGroup

	pushedVersion uint64
	pushedOnce    bool
}

func NewSession(conn Conn, gateway Gateway, activationDistance float64) *Session {
	s := &Session{
		id:       uuid.NewString(),
		conn:     conn,
		outbound: make(chan schemas.BoardServerMessage, outboundBuffer),
		settled:  make(chan *Commit),
		done:     make(chan struct{}),
	}
	s.log = log.WithField("session_id", s.id)
	s.board = NewState(gateway, s)
	s.controller = NewController(s.board, NewWriter(s.board, gateway, s), s, activationDistance)
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Notify(kind, message string) {
	s.send(schemas.BoardServerMessage{
		Type:    schemas.BOARD_MESSAGE_NOTICE,
		Kind:    kind,
		Message: message,
	})
}

func (s *Session) NavigateToItem(id string) {
	s.send(schemas.BoardServerMessage{
		Type:   schemas.BOARD_MESSAGE_NAVIGATE,
		ItemID: id,
	})
}

// Run loads the board and serves the connection until the peer goes away or
// ctx is cancelled. It returns the error that ended the read side, if any.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	metrics.BoardSessions.Inc()
	defer metrics.BoardSessions.Dec()

	var loops sync.WaitGroup
	incoming := make(chan schemas.BoardClientMessage)
	readErr := make(chan error, 1)

	loops.Add(2)
	go func() {
		defer loops.Done()
		s.writeLoop()
	}()
	go func() {
		defer loops.Done()
		readErr <- s.readLoop(ctx, incoming)
	}()

	s.log.Debug("board session opened")
	_ = s.board.Load(ctx)
	s.pushBoard()

	var err error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case msg := <-incoming:
			s.handle(ctx, msg)
		case commit := <-s.settled:
			s.settle(ctx, commit)
		case err = <-readErr:
			break loop
		}
	}

	cancel()
	close(s.done)
	s.commits.Wait()
	s.conn.Close()
	loops.Wait()

	s.log.Debug("board session closed")
	return err
}

func (s *Session) handle(ctx context.Context, msg schemas.BoardClientMessage) {
	var (
		commit *Commit
		err    error
	)

	switch msg.Type {
	case schemas.BOARD_MESSAGE_POINTER_DOWN:
		err = s.controller.PointerDown(msg.ItemID, msg.X, msg.Y)
	case schemas.BOARD_MESSAGE_POINTER_MOVE:
		err = s.controller.PointerMove(msg.X, msg.Y, msg.Target)
	case schemas.BOARD_MESSAGE_POINTER_UP:
		commit, err = s.controller.PointerUp(msg.Target)
	case schemas.BOARD_MESSAGE_KEY_PICK_UP:
		err = s.controller.PickUp(msg.ItemID)
	case schemas.BOARD_MESSAGE_KEY_MOVE:
		err = s.controller.Move(msg.Target)
	case schemas.BOARD_MESSAGE_KEY_DROP:
		commit, err = s.controller.Drop(msg.Target)
	case schemas.BOARD_MESSAGE_CANCEL:
		s.controller.Cancel()
	case schemas.BOARD_MESSAGE_RELOAD:
		s.controller.Cancel()
		_ = s.board.Load(ctx)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}

	if err != nil {
		s.log.WithError(err).WithField("type", msg.Type).Debug("gesture rejected")
		s.send(schemas.BoardServerMessage{
			Type:    schemas.BOARD_MESSAGE_ERROR,
			Message: err.Error(),
		})
	}

	if commit != nil {
		s.startCommit(commit)
	}

	s.pushBoard()
}

func (s *Session) startCommit(commit *Commit) {
	if err := commit.prepare(); err != nil {
		if !errors.Is(err, ErrNoStageChange) {
			s.log.WithError(err).WithField("item_id", commit.ItemID).Debug("commit dropped before the write")
		}
		s.controller.Settle(commit)
		return
	}

	s.commits.Add(1)
	go func() {
		defer s.commits.Done()

		ctx, cancel := context.WithTimeout(context.Background(), COMMIT_TIMEOUT)
		defer cancel()
		commit.persist(ctx)

		select {
		case s.settled <- commit:
		case <-s.done:
		}
	}()
}

// settle applies a finished write on the loop. A failed write reloads the
// board, so a drag in progress is rebased onto the reloaded items.
func (s *Session) settle(ctx context.Context, commit *Commit) {
	if err := commit.reconcile(ctx); err != nil {
		s.log.WithError(err).WithField("item_id", commit.ItemID).Debug("commit settled with an error")
		s.controller.Rebase()
	}
	s.controller.Settle(commit)
	s.pushBoard()
}

// pushBoard sends a snapshot when the board changed since the last one.
func (s *Session) pushBoard() {
	version := s.board.Version()
	if s.pushedOnce && version == s.pushedVersion {
		return
	}
	s.pushedOnce = true
	s.pushedVersion = version

	s.send(schemas.BoardServerMessage{
		Type:    schemas.BOARD_MESSAGE_BOARD,
		Columns: s.board.Snapshot(),
	})
}

func (s *Session) send(msg schemas.BoardServerMessage) {
	select {
	case s.outbound <- msg:
	case <-s.done:
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.outbound:
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.WithError(err).Debug("could not write to board session")
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) readLoop(ctx context.Context, incoming chan<- schemas.BoardClientMessage) error {
	for {
		msg := schemas.BoardClientMessage{}
		if err := s.conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			// Empty and truncated frames surface as io.ErrUnexpectedEOF.
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.send(schemas.BoardServerMessage{
					Type:    schemas.BOARD_MESSAGE_ERROR,
					Message: "malformed message",
				})
				continue
			}
			return err
		}

		select {
		case incoming <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}
