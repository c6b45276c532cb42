package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
	"github.com/dmitrijs2005/adminpanel/internal/client/store"
)

func TestToast(t *testing.T) {
	v := newView(&bytes.Buffer{})

	ok := v.toast(store.Notification{Level: store.LevelSuccess, Text: "User created successfully!"})
	assert.Equal(t, "✔ User created successfully!", ok)

	fail := v.toast(store.Notification{Level: store.LevelError, Text: "Login failed: boom"})
	assert.Equal(t, "✖ Login failed: boom", fail)
}

func TestUsersScreen(t *testing.T) {
	v := newView(&bytes.Buffer{})
	sizes := []int{5, 10, 20, 50}
	base := store.Users{Page: 1, PageSize: 10}

	loading := base
	loading.Pending = true
	loading.Items = sampleUsers
	out := v.usersScreen(loading, sizes, userOrder{})
	assert.Contains(t, out, "Page 1 | Page Size 10 (5, 10, 20, 50)")
	assert.Contains(t, out, loadingText)
	assert.NotContains(t, out, "john@mail.com")

	failed := base
	failed.LastError = "server unavailable"
	assert.Contains(t, v.usersScreen(failed, sizes, userOrder{}), "server unavailable")

	assert.Contains(t, v.usersScreen(base, sizes, userOrder{}), "There are no records to display")

	full := base
	full.Items = sampleUsers
	out = v.usersScreen(full, sizes, userOrder{})
	for _, want := range []string{"ID", "Name", "Email", "Avatar", "John", "maria@mail.com", "https://i.imgur.com/2.jpeg"} {
		assert.Contains(t, out, want)
	}
	// header, two rows and the borders around them
	assert.GreaterOrEqual(t, strings.Count(v.usersTable(full.Items), "\n"), 4)
}

func TestUsersScreen_SortedCopy(t *testing.T) {
	v := newView(&bytes.Buffer{})
	u := store.Users{Page: 1, PageSize: 10, Items: []models.User{
		{ID: 1, Name: "john", Email: "zed@mail.com"},
		{ID: 2, Name: "Maria", Email: "amy@mail.com"},
		{ID: 3, Name: "Bob", Email: "max@mail.com"},
	}}
	server := slices.Clone(u.Items)

	byName := v.usersScreen(u, []int{10}, userOrder{field: "name"})
	assert.Contains(t, byName, "Sorted by name, ascending")
	assert.Less(t, strings.Index(byName, "Bob"), strings.Index(byName, "john"))
	assert.Less(t, strings.Index(byName, "john"), strings.Index(byName, "Maria"))

	byEmail := v.usersScreen(u, []int{10}, userOrder{field: "email", desc: true})
	assert.Contains(t, byEmail, "Sorted by email, descending")
	assert.Less(t, strings.Index(byEmail, "zed@mail.com"), strings.Index(byEmail, "max@mail.com"))
	assert.Less(t, strings.Index(byEmail, "max@mail.com"), strings.Index(byEmail, "amy@mail.com"))

	assert.Equal(t, server, u.Items)
	assert.NotContains(t, v.usersScreen(u, []int{10}, userOrder{}), "Sorted by")
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		args    []string
		want    userOrder
		wantErr bool
	}{
		{args: []string{"name"}, want: userOrder{field: "name"}},
		{args: []string{"Email", "desc"}, want: userOrder{field: "email", desc: true}},
		{args: []string{"email", "asc"}, want: userOrder{field: "email"}},
		{args: []string{"off"}, want: userOrder{}},
		{args: nil, wantErr: true},
		{args: []string{"avatar"}, wantErr: true},
		{args: []string{"name", "sideways"}, wantErr: true},
		{args: []string{"off", "desc"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := parseOrder(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, errSortUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHomeScreen(t *testing.T) {
	v := newView(&bytes.Buffer{})
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1,
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	st := store.NewState(tok)
	out := v.homeScreen(st, tok, "1", now.Add(-time.Minute), now)
	assert.Contains(t, out, "Signed in as user 1")
	assert.Contains(t, out, "Token expires")
	assert.Contains(t, out, "Session saved")
	assert.Contains(t, out, "Users page 1, 10 per page")

	out = v.homeScreen(st, tok, "", time.Time{}, now.Add(2*time.Hour))
	assert.Contains(t, out, "Token expired")
	assert.NotContains(t, out, "Session saved")

	// opaque tokens are fine, only the claims line disappears
	out = v.homeScreen(store.NewState("opaque"), "opaque", "", time.Time{}, now)
	assert.NotContains(t, out, "Token")
}

func TestValidationView(t *testing.T) {
	v := newView(&bytes.Buffer{})
	out := v.validation(ValidationError{{"name", "Name is required!"}, {"avatar", "Invalid URL!"}})
	assert.Equal(t, "name: Name is required!\navatar: Invalid URL!", out)
}
