package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/adminpanel/internal/client/client"
	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

func wait(t *testing.T, task *Task) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := task.Wait(ctx)
	require.NoError(t, err)
	return res
}

func newTestStore(t *testing.T, fx Effects, sess *fakeSession) (*Store, *recorder) {
	t.Helper()
	rec := &recorder{}
	s := New(fx, sess, WithNotifier(rec), WithNavigator(rec))
	s.Subscribe(rec.onState)
	t.Cleanup(func() { _ = s.Close() })
	return s, rec
}

func TestStore_InitialStateFromSession(t *testing.T) {
	s, _ := newTestStore(t, newGatedEffects(), &fakeSession{token: "persisted"})

	st := s.State()
	assert.Equal(t, "persisted", st.Session.Token)
	assert.Equal(t, 1, st.Users.Page)
	assert.Equal(t, 10, st.Users.PageSize)
}

func TestStore_LoginSuccessPersistsAndNavigates(t *testing.T) {
	api := &fakeAPI{token: "AT"}
	sess := &fakeSession{}
	s, rec := newTestStore(t, NewRunner(api, fastPolicies(0), nil), sess)

	task := s.Dispatch(context.Background(), Login("john@mail.com", "changeme"))
	res := wait(t, task)

	require.True(t, res.OK())
	assert.Equal(t, TaskSucceeded, task.State())
	assert.Equal(t, "AT", s.State().Session.Token)
	assert.Equal(t, []string{"AT"}, sess.sets)
	assert.Equal(t, []Route{RouteHome}, rec.Routes())
	assert.Equal(t, []Notification{{Kind: KindLogin, Level: LevelSuccess, Text: "Login successful!"}}, rec.Notes())
}

func TestStore_LoginFailure(t *testing.T) {
	api := &fakeAPI{errs: []error{&client.APIError{StatusCode: 401, Message: "Unauthorized"}}}
	sess := &fakeSession{}
	s, rec := newTestStore(t, NewRunner(api, fastPolicies(0), nil), sess)

	task := s.Dispatch(context.Background(), Login("x@y.z", "bad"))
	res := wait(t, task)

	assert.False(t, res.OK())
	assert.Equal(t, TaskFailed, task.State())

	st := s.State()
	assert.Empty(t, st.Session.Token)
	assert.NotEmpty(t, st.Session.LastError)
	assert.False(t, st.Session.Pending)
	assert.Empty(t, sess.sets)
	assert.Empty(t, rec.Routes())
	require.Len(t, rec.Notes(), 1)
	assert.Equal(t, "Login failed: Unauthorized (status 401)", rec.Notes()[0].Text)
	assert.Equal(t, LevelError, rec.Notes()[0].Level)
}

func TestStore_LoginSaveFailureBecomesFailure(t *testing.T) {
	api := &fakeAPI{token: "AT"}
	sess := &fakeSession{setErr: errors.New("disk full")}
	s, rec := newTestStore(t, NewRunner(api, fastPolicies(0), nil), sess)

	res := wait(t, s.Dispatch(context.Background(), Login("a@b.c", "pw")))

	assert.False(t, res.OK())
	assert.Contains(t, res.Message(), "disk full")
	assert.Empty(t, s.State().Session.Token)
	assert.Empty(t, rec.Routes())
}

func TestStore_FetchScenarioAndListenerSeesPending(t *testing.T) {
	fx := newGatedEffects()
	s, rec := newTestStore(t, fx, &fakeSession{token: "tok"})

	cmd := FetchUsers(1, 10)
	task := s.Dispatch(context.Background(), cmd)
	assert.True(t, s.State().Users.Pending)

	fx.release(cmd, Success(users(1, 2)))
	wait(t, task)

	st := s.State()
	assert.Len(t, st.Users.Items, 2)
	assert.False(t, st.Users.Pending)

	states := rec.States()
	require.GreaterOrEqual(t, len(states), 2)
	assert.True(t, states[0].Users.Pending)
	assert.False(t, states[len(states)-1].Users.Pending)
	assert.Equal(t, []Notification{{Kind: KindFetchUsers, Level: LevelSuccess, Text: "Users fetched successfully!"}}, rec.Notes())
}

func TestStore_LatestWins(t *testing.T) {
	fx := newGatedEffects()
	s, rec := newTestStore(t, fx, &fakeSession{token: "tok"})
	ctx := context.Background()

	first, second := FetchUsers(1, 10), FetchUsers(2, 10)
	t1 := s.Dispatch(ctx, first)
	t2 := s.Dispatch(ctx, second)
	assert.Equal(t, uint64(1), t1.Seq)
	assert.Equal(t, uint64(2), t2.Seq)

	fx.release(second, Success(users(11, 12)))
	wait(t, t2)
	fx.release(first, Success(users(1, 2)))
	wait(t, t1)

	assert.True(t, t1.Superseded())
	assert.False(t, t2.Superseded())
	assert.Equal(t, []int{11, 12}, ids(s.State().Users.Items))
	assert.Equal(t, 2, s.State().Users.Page)
	assert.Len(t, rec.Notes(), 1, "only the authoritative outcome notifies")
}

func TestStore_SupersededEarlyFailureIsSilent(t *testing.T) {
	fx := newGatedEffects()
	s, rec := newTestStore(t, fx, &fakeSession{token: "tok"})
	ctx := context.Background()

	first, second := DeleteUser(1), DeleteUser(2)
	t1 := s.Dispatch(ctx, first)
	t2 := s.Dispatch(ctx, second)

	fx.release(first, Failure(errors.New("stale")))
	wait(t, t1)
	assert.True(t, s.State().Users.Pending)
	assert.Empty(t, s.State().Users.LastError)
	assert.Empty(t, rec.Notes())

	fx.release(second, Success(2))
	wait(t, t2)
	assert.False(t, s.State().Users.Pending)
	require.Len(t, rec.Notes(), 1)
	assert.Equal(t, "User deleted successfully!", rec.Notes()[0].Text)
}

func TestStore_KindsAreIndependent(t *testing.T) {
	fx := newGatedEffects()
	s, _ := newTestStore(t, fx, &fakeSession{token: "tok"})
	ctx := context.Background()

	fetch := FetchUsers(1, 10)
	create := CreateUser(models.NewUser{Name: "N"})
	tf := s.Dispatch(ctx, fetch)
	tc := s.Dispatch(ctx, create)

	fx.release(fetch, Success(users(1, 2)))
	wait(t, tf)
	assert.True(t, s.State().Users.Pending)

	fx.release(create, Success(models.User{ID: 3}))
	wait(t, tc)
	assert.False(t, tc.Superseded())
	assert.Equal(t, []int{1, 2, 3}, ids(s.State().Users.Items))
}

func TestStore_UnauthorizedSignsOut(t *testing.T) {
	fx := newGatedEffects()
	sess := &fakeSession{token: "expired"}
	s, rec := newTestStore(t, fx, sess)

	cmd := FetchUsers(1, 10)
	task := s.Dispatch(context.Background(), cmd)
	fx.release(cmd, Failure(&client.APIError{StatusCode: 401, Message: "Unauthorized"}))
	wait(t, task)

	st := s.State()
	assert.Empty(t, st.Session.Token)
	assert.Equal(t, "Unauthorized (status 401)", st.Users.LastError)
	assert.Empty(t, sess.Token())
	assert.Equal(t, 1, sess.clears)
	assert.Equal(t, []Route{RouteLogin}, rec.Routes())
	require.Len(t, rec.Notes(), 1)
	assert.Equal(t, "Failed to fetch users: Unauthorized (status 401)", rec.Notes()[0].Text)
}

func TestStore_UnauthorizedForReplacedTokenKeepsNewSession(t *testing.T) {
	fx := newGatedEffects()
	sess := &fakeSession{token: "old"}
	s, rec := newTestStore(t, fx, sess)
	ctx := context.Background()

	fetch := FetchUsers(1, 10)
	login := Login("john@mail.com", "changeme")
	tf := s.Dispatch(ctx, fetch)
	tl := s.Dispatch(ctx, login)

	fx.release(login, Success("fresh"))
	wait(t, tl)
	require.Equal(t, "fresh", s.State().Session.Token)

	fx.release(fetch, Failure(&client.APIError{StatusCode: 401, Message: "Unauthorized"}))
	wait(t, tf)

	assert.Equal(t, "fresh", s.State().Session.Token)
	assert.Equal(t, "fresh", sess.Token())
	assert.Zero(t, sess.clears)
	assert.Equal(t, []Route{RouteHome}, rec.Routes())
}

func TestStore_Logout(t *testing.T) {
	sess := &fakeSession{token: "tok"}
	s, rec := newTestStore(t, newGatedEffects(), sess)

	require.NoError(t, s.Logout(context.Background()))

	assert.Empty(t, s.State().Session.Token)
	assert.Empty(t, sess.Token())
	assert.Equal(t, []Route{RouteLogin}, rec.Routes())
}

func TestStore_LogoutError(t *testing.T) {
	sess := &fakeSession{token: "tok", clearErr: errors.New("locked")}
	s, _ := newTestStore(t, newGatedEffects(), sess)

	err := s.Logout(context.Background())
	require.ErrorContains(t, err, "locked")
	assert.Equal(t, "tok", s.State().Session.Token)
}

func TestStore_Unsubscribe(t *testing.T) {
	s, _ := newTestStore(t, newGatedEffects(), &fakeSession{token: "tok"})

	var mu sync.Mutex
	calls := 0
	unsub := s.Subscribe(func(State) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	require.NoError(t, s.Logout(context.Background()))
	unsub()
	unsub()
	require.NoError(t, s.Logout(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestStore_ListenerMayDispatch(t *testing.T) {
	api := &fakeAPI{token: "AT", users: users(1)}
	s, _ := newTestStore(t, NewRunner(api, fastPolicies(0), nil), &fakeSession{})

	fetched := make(chan *Task, 1)
	var once sync.Once
	s.Subscribe(func(st State) {
		if st.SignedIn() {
			once.Do(func() { fetched <- s.Dispatch(context.Background(), FetchUsers(1, 10)) })
		}
	})

	wait(t, s.Dispatch(context.Background(), Login("a@b.c", "pw")))

	select {
	case task := <-fetched:
		wait(t, task)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not dispatch")
	}
	assert.Len(t, s.State().Users.Items, 1)
}

func TestStore_CloseWaitsAndRejects(t *testing.T) {
	fx := newGatedEffects()
	s := New(fx, &fakeSession{token: "tok"})

	cmd := DeleteUser(4)
	task := s.Dispatch(context.Background(), cmd)

	closed := make(chan struct{})
	go func() {
		_ = s.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned before the running effect settled")
	case <-time.After(20 * time.Millisecond):
	}

	fx.release(cmd, Success(4))
	<-closed
	assert.Equal(t, TaskSucceeded, task.State())

	late := s.Dispatch(context.Background(), FetchUsers(1, 10))
	res := wait(t, late)
	assert.ErrorIs(t, res.Err, ErrClosed)
}

func TestStore_DispatchUnknownCommand(t *testing.T) {
	s, rec := newTestStore(t, newGatedEffects(), &fakeSession{})

	res := wait(t, s.Dispatch(context.Background(), strangeCommand{}))
	assert.ErrorIs(t, res.Err, ErrUnknownCommand)
	assert.Empty(t, rec.States())
}

func TestStore_StateIsACopy(t *testing.T) {
	fx := newGatedEffects()
	s, _ := newTestStore(t, fx, &fakeSession{token: "tok"})

	cmd := FetchUsers(1, 10)
	task := s.Dispatch(context.Background(), cmd)
	fx.release(cmd, Success(users(1, 2)))
	wait(t, task)

	st := s.State()
	st.Users.Items[0].Name = "mutated"
	assert.Equal(t, "user", s.State().Users.Items[0].Name)
}

func TestTask_WaitHonoursContext(t *testing.T) {
	task := newTask(DeleteUser(1), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, TaskIssued, task.State())

	_, settled := task.Result()
	assert.False(t, settled)

	task.start()
	assert.Equal(t, TaskInFlight, task.State())
	task.finish(Success(1), false)
	task.finish(Failure(errors.New("second")), false)
	assert.Equal(t, TaskSucceeded, task.State())
	assert.Equal(t, "succeeded", task.State().String())
}
