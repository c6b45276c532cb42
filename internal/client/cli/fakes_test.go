package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/adminpanel/internal/client/config"
	"github.com/dmitrijs2005/adminpanel/internal/client/store"
	"github.com/dmitrijs2005/adminpanel/internal/logging"
)

// fakeSession is an in-memory session capturing writes.
type fakeSession struct {
	mu      sync.Mutex
	token   string
	subject string
	savedAt time.Time
	cleared int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subject
}

func (s *fakeSession) SavedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedAt
}

func (s *fakeSession) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *fakeSession) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.subject = "", ""
	s.cleared++
	return nil
}

// fakeEffects answers commands with canned results and records them.
type fakeEffects struct {
	mu       sync.Mutex
	commands []store.Command
	results  map[store.Kind]store.Result
}

func (f *fakeEffects) Run(_ context.Context, cmd store.Command) store.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	if r, ok := f.results[cmd.Kind()]; ok {
		return r
	}
	return store.Failure(errors.New("no canned result"))
}

func (f *fakeEffects) Commands() []store.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.Command(nil), f.commands...)
}

// syncBuffer is a bytes.Buffer safe for toasts written from effect goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testApp struct {
	*App
	out     *syncBuffer
	sess    *fakeSession
	effects *fakeEffects
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

// newTestApp builds an App over a real store with fake effects and session.
func newTestApp(t *testing.T, token string, results map[store.Kind]store.Result) *testApp {
	t.Helper()

	out := &syncBuffer{}
	sess := &fakeSession{token: token}
	effects := &fakeEffects{results: results}

	a := newApp(testConfig(), sess, logging.Discard(), strings.NewReader(""), out)
	st := store.New(effects, sess,
		store.WithNotifier(store.NotifierFunc(a.notify)),
		store.WithNavigator(store.NavigatorFunc(a.navigate)),
	)
	a.attach(st)
	a.closers = append(a.closers, st.Close)
	t.Cleanup(func() { _ = a.Close() })

	return &testApp{App: a, out: out, sess: sess, effects: effects}
}

// stubInputs answers text prompts from answers in order and password
// prompts with password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	var mu sync.Mutex
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
}
