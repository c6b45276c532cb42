package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/adminpanel/internal/client/client"
	"github.com/dmitrijs2005/adminpanel/internal/logging"
)

var ErrClosed = errors.New("store closed")

// Effects performs a command's side effect. *Runner is the production
// implementation.
type Effects interface {
	Run(ctx context.Context, cmd Command) Result
}

// SessionStore is the durable home of the access token.
type SessionStore interface {
	Token() string
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type listener struct {
	id int
	fn func(State)
}

// Store owns State. Commands go in through Dispatch, their effects run on
// background goroutines, and every state change is delivered to subscribers
// in the order it happened.
type Store struct {
	effects  Effects
	session  SessionStore
	notifier Notifier
	nav      Navigator
	log      logging.Logger

	// mu also covers session writes made while settling, so the persisted
	// token always belongs to the newest authoritative login.
	mu        sync.Mutex
	state     State
	listeners []listener
	nextID    int
	pending   []State
	draining  bool
	closed    bool

	tasks errgroup.Group
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithNavigator(n Navigator) Option {
	return func(s *Store) { s.nav = n }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New returns a Store whose initial session token is the one session holds.
func New(effects Effects, session SessionStore, opts ...Option) *Store {
	s := &Store{
		effects:  effects,
		session:  session,
		notifier: nopNotifier{},
		nav:      nopNavigator{},
		log:      logging.Discard(),
		state:    NewState(session.Token()),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn runs on whichever goroutine applied the change; it may call
// Dispatch.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
			s.mu.Unlock()
		})
	}
}

// Dispatch issues cmd and starts its effect without waiting for it. The
// returned Task settles when the effect completes.
func (s *Store) Dispatch(ctx context.Context, cmd Command) *Task {
	if cmd == nil || !cmd.Kind().Valid() {
		t := newTask(cmd, 0)
		t.finish(Failure(ErrUnknownCommand), false)
		return t
	}
	k := cmd.Kind()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		t := newTask(cmd, 0)
		t.finish(Failure(ErrClosed), false)
		return t
	}
	seq := s.state.LatestSeq(k) + 1
	s.commitLocked(Issued{Command: cmd, Seq: seq})

	t := newTask(cmd, seq)
	t.token = s.state.Session.Token
	s.tasks.Go(func() error {
		t.start()
		res := s.effects.Run(ctx, cmd)
		s.settle(ctx, t, res)
		return nil
	})
	s.mu.Unlock()

	s.log.Debug(ctx, "command issued", "kind", k, "seq", seq, "task", t.ID)
	s.flush()
	return t
}

func (s *Store) settle(ctx context.Context, t *Task, res Result) {
	k := t.Command.Kind()
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	if !s.state.Authoritative(k, t.Seq) {
		s.mu.Unlock()
		s.log.Debug(ctx, "outcome discarded", "kind", k, "seq", t.Seq, "task", t.ID)
		t.finish(res, true)
		return
	}

	if k == KindLogin && res.OK() {
		if tok, _ := res.Payload.(string); tok != "" {
			if err := s.session.SetToken(ctx, tok); err != nil {
				res = Failure(fmt.Errorf("save session: %w", err))
			}
		}
	}

	// A rejection of a token that has since been replaced says nothing about
	// the current session.
	signOut := k.touchesUsers() && errors.Is(res.Err, client.ErrUnauthorized) &&
		t.token == s.state.Session.Token
	if signOut {
		if err := s.session.Clear(ctx); err != nil {
			s.log.Error(ctx, "failed to clear session", "error", err)
		}
	}

	s.commitLocked(Outcome{Kind: k, Seq: t.Seq, Result: res})
	if signOut {
		s.commitLocked(SignedOut{})
	}
	s.mu.Unlock()

	if res.OK() {
		s.log.Info(ctx, "command succeeded", "kind", k, "seq", t.Seq, "task", t.ID)
	} else {
		s.log.Warn(ctx, "command failed", "kind", k, "seq", t.Seq, "task", t.ID, "error", res.Err)
	}

	s.flush()
	s.notifier.Notify(NotificationFor(k, res))
	switch {
	case k == KindLogin && res.OK():
		s.nav.Navigate(RouteHome)
	case signOut:
		s.nav.Navigate(RouteLogin)
	}
	t.finish(res, false)
}

// Logout clears the persisted token and signs the state out.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.session.Clear(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("logout: %w", err)
	}
	s.commitLocked(SignedOut{})
	s.mu.Unlock()

	s.flush()
	s.nav.Navigate(RouteLogin)
	return nil
}

// Close stops accepting commands and waits for running effects to settle.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.tasks.Wait()
}

func (s *Store) commitLocked(ev Event) {
	s.state = Reduce(s.state, ev)
	s.pending = append(s.pending, s.state)
}

// flush delivers queued states. Only one goroutine delivers at a time; others
// leave their states in the queue for it, which keeps delivery ordered and
// lets listeners dispatch without deadlocking.
func (s *Store) flush() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		ls := slices.Clone(s.listeners)
		s.mu.Unlock()

		for _, st := range batch {
			for _, l := range ls {
				l.fn(st)
			}
		}

		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}
