package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

// fakeAPI is a hand-written client.Client capturing inputs.
type fakeAPI struct {
	mu sync.Mutex

	loginCreds  models.Credentials
	listOffset  int
	listLimit   int
	created     models.NewUser
	updatedID   int
	updatedWith models.UserPatch
	deletedID   int

	// errs are returned by successive calls, then nil.
	errs  []error
	calls int

	token   string
	users   []models.User
	user    models.User
	block   bool
	panicky bool
}

func (f *fakeAPI) next(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	block, panicky := f.block, f.panicky
	f.mu.Unlock()

	if panicky {
		panic("kaboom")
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) Login(ctx context.Context, creds models.Credentials) (string, error) {
	f.loginCreds = creds
	if err := f.next(ctx); err != nil {
		return "", err
	}
	return f.token, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, offset, limit int) ([]models.User, error) {
	f.listOffset, f.listLimit = offset, limit
	if err := f.next(ctx); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, u models.NewUser) (models.User, error) {
	f.created = u
	if err := f.next(ctx); err != nil {
		return models.User{}, err
	}
	return f.user, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, id int, patch models.UserPatch) (models.User, error) {
	f.updatedID, f.updatedWith = id, patch
	if err := f.next(ctx); err != nil {
		return models.User{}, err
	}
	return f.user, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, id int) error {
	f.deletedID = id
	return f.next(ctx)
}

// fakeSession is an in-memory SessionStore.
type fakeSession struct {
	mu       sync.Mutex
	token    string
	setErr   error
	clearErr error
	sets     []string
	clears   int
}

func (f *fakeSession) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) SetToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.token = token
	f.sets = append(f.sets, token)
	return nil
}

func (f *fakeSession) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.token = ""
	return nil
}

// gatedEffects holds every command until its gate is released.
type gatedEffects struct {
	mu    sync.Mutex
	gates map[Command]chan Result
}

func newGatedEffects() *gatedEffects {
	return &gatedEffects{gates: map[Command]chan Result{}}
}

func (g *gatedEffects) gate(cmd Command) chan Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[cmd]
	if !ok {
		ch = make(chan Result, 1)
		g.gates[cmd] = ch
	}
	return ch
}

func (g *gatedEffects) Run(ctx context.Context, cmd Command) Result {
	select {
	case r := <-g.gate(cmd):
		return r
	case <-ctx.Done():
		return Failure(ctx.Err())
	}
}

func (g *gatedEffects) release(cmd Command, r Result) {
	g.gate(cmd) <- r
}

// recorder collects notifications, routes and states.
type recorder struct {
	mu     sync.Mutex
	notes  []Notification
	routes []Route
	states []State
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recorder) onState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) Notes() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func (r *recorder) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.routes...)
}

func (r *recorder) States() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}
