package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/adminpanel/internal/client/client"
	"github.com/dmitrijs2005/adminpanel/internal/client/config"
	"github.com/dmitrijs2005/adminpanel/internal/client/session"
	"github.com/dmitrijs2005/adminpanel/internal/client/store"
	"github.com/dmitrijs2005/adminpanel/internal/logging"
)

// dispatcher is the part of *store.Store the App drives.
type dispatcher interface {
	Dispatch(ctx context.Context, cmd store.Command) *store.Task
	State() store.State
	Logout(ctx context.Context) error
	Close() error
}

// sessionInfo is the read side of the session used for the dashboard.
type sessionInfo interface {
	Token() string
	Subject() string
	SavedAt() time.Time
}

type App struct {
	config  *config.Config
	store   dispatcher
	session sessionInfo
	log     logging.Logger
	reader  *bufio.Reader
	view    *view
	now     func() time.Time

	// out is shared with toasts, which arrive from effect goroutines.
	outMu sync.Mutex
	out   io.Writer

	routeMu sync.Mutex
	route   store.Route

	loadMu  sync.Mutex
	loading bool

	order userOrder

	closers []func() error
}

// NewApp opens the session database, restores the saved token and wires the
// store to the users API described by c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	policies, err := policiesFromConfig(c)
	if err != nil {
		return nil, err
	}

	db, err := session.OpenDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	sess := session.NewStore(db)
	if err := sess.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, sess, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := newApp(c, sess, log, os.Stdin, os.Stdout)
	st := store.New(
		store.NewRunner(api, policies, log),
		sess,
		store.WithNotifier(store.NotifierFunc(a.notify)),
		store.WithNavigator(store.NavigatorFunc(a.navigate)),
		store.WithLogger(log),
	)
	a.attach(st)
	a.closers = append(a.closers, st.Close, api.Close, db.Close)
	return a, nil
}

// attach makes s the App's store and follows its state changes.
func (a *App) attach(s *store.Store) {
	a.store = s
	unsubscribe := s.Subscribe(a.onState)
	a.closers = append(a.closers, func() error {
		unsubscribe()
		return nil
	})
}

// onState prints the loading line when a request starts and nothing else was
// in flight.
func (a *App) onState(st store.State) {
	busy := st.Session.Pending || st.Users.Pending

	a.loadMu.Lock()
	started := busy && !a.loading
	a.loading = busy
	a.loadMu.Unlock()

	if started {
		a.println(loadingText)
	}
}

// newApp builds an App without a store; callers attach one.
func newApp(c *config.Config, sess sessionInfo, log logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		session: sess,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
		view:    newView(out),
		now:     time.Now,
		route:   store.RouteLogin,
	}
	if sess.Token() != "" {
		a.route = store.RouteHome
	}
	return a
}

// policiesFromConfig applies the global request timeout and then the
// per-kind overrides on top of the built-in policies.
func policiesFromConfig(c *config.Config) (map[store.Kind]store.Policy, error) {
	policies := store.DefaultPolicies()
	if c.RequestTimeout > 0 {
		for k, p := range policies {
			p.Timeout = c.RequestTimeout
			policies[k] = p
		}
	}

	for name, o := range c.Policies {
		k, err := store.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("policy %q: %w", name, err)
		}
		p := policies[k]
		if o.Timeout > 0 {
			p.Timeout = o.Timeout
		}
		if o.Backoff > 0 {
			p.Backoff = o.Backoff
		}
		if o.MaxRetries != nil {
			p.MaxRetries = *o.MaxRetries
		}
		policies[k] = p
	}
	return policies, nil
}

// Run shows the current screen and serves commands until the input ends or
// the user exits.
func (a *App) Run(ctx context.Context) {
	a.log.Info(ctx, "admin cli started", "api", a.config.APIBaseURL, "signed_in", a.signedIn())
	a.println("Welcome to the users admin (type 'help' for commands)")
	_ = a.Show(ctx)
	runREPL(ctx, a, a.status, a.reader)
}

// Close waits for running commands and releases the API client and the
// session database.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) status() string {
	s := string(a.currentRoute())
	if sub := a.session.Subject(); sub != "" && a.signedIn() {
		s += " as " + sub
	}
	return s
}

func (a *App) signedIn() bool {
	return a.store.State().SignedIn()
}

func (a *App) navigate(r store.Route) {
	a.routeMu.Lock()
	a.route = r
	a.routeMu.Unlock()
}

func (a *App) currentRoute() store.Route {
	a.routeMu.Lock()
	defer a.routeMu.Unlock()
	return a.route
}

func (a *App) notify(n store.Notification) {
	a.println(a.view.toast(n))
}

func (a *App) println(s string) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, s)
}

// prompter returns the writer used by interactive prompts.
func (a *App) prompter() io.Writer {
	return lockedWriter{a}
}

type lockedWriter struct{ a *App }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.a.outMu.Lock()
	defer w.a.outMu.Unlock()
	return w.a.out.Write(p)
}
