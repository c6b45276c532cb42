package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
	"github.com/dmitrijs2005/adminpanel/internal/client/store"
	"github.com/dmitrijs2005/adminpanel/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. On success the store saves the
// token and moves to the home screen, which is shown right away.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.prompter())
	if err != nil {
		return err
	}
	pw, err := getPassword(a.prompter())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	password := string(pw)

	if err := validateLogin(email, password); err != nil {
		return a.rejectForm(err)
	}

	res, err := a.await(ctx, a.store.Dispatch(ctx, store.Login(email, password)))
	if err != nil {
		return err
	}
	if res.OK() {
		return a.Show(ctx)
	}
	return nil
}

// Logout forgets the saved token and returns to the login screen.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	a.println("Logged out.")
	return a.Show(ctx)
}

func (a *App) Home(ctx context.Context) error {
	a.navigate(store.RouteHome)
	return a.Show(ctx)
}

// Users fetches a page of users. args are an optional page number and page
// size; missing values keep the current ones.
func (a *App) Users(ctx context.Context, args []string) error {
	st := a.store.State()
	page, size := st.Users.Page, a.pageSize(st)

	if len(args) > 0 {
		n, err := parsePositive(args[0], "page")
		if err != nil {
			return err
		}
		page = n
	}
	if len(args) > 1 {
		n, err := a.parseSize(args[1])
		if err != nil {
			return err
		}
		size = n
	}
	if err := checkPage(page, size); err != nil {
		return err
	}
	return a.fetch(ctx, page, size)
}

func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page <n>")
	}
	page, err := parsePositive(args[0], "page")
	if err != nil {
		return err
	}
	size := a.pageSize(a.store.State())
	if err := checkPage(page, size); err != nil {
		return err
	}
	return a.fetch(ctx, page, size)
}

// Size changes the page size and goes back to the first page.
func (a *App) Size(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: size <n>")
	}
	size, err := a.parseSize(args[0])
	if err != nil {
		return err
	}
	return a.fetch(ctx, store.DefaultPage, size)
}

func (a *App) Add(ctx context.Context) error {
	a.navigate(store.RouteUsers)
	a.println("Add User")

	var u models.NewUser
	var err error
	if u.Name, err = getSimpleText(a.reader, "Name", a.prompter()); err != nil {
		return err
	}
	if u.Email, err = getSimpleText(a.reader, "Email", a.prompter()); err != nil {
		return err
	}
	pw, err := getPassword(a.prompter())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	u.Password = string(pw)
	if u.Avatar, err = getSimpleText(a.reader, "Avatar URL (optional)", a.prompter()); err != nil {
		return err
	}

	if err := validateUser(u); err != nil {
		return a.rejectForm(err)
	}
	if _, err := a.await(ctx, a.store.Dispatch(ctx, store.CreateUser(u))); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Edit changes a user from the current page. Every prompt shows the current
// value; an empty answer keeps it.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit")
	if err != nil {
		return err
	}
	st := a.store.State()
	i := slices.IndexFunc(st.Users.Items, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return fmt.Errorf("user %d is not on the current page, run 'users' first", id)
	}
	cur := st.Users.Items[i]

	a.navigate(store.RouteUsers)
	a.println("Edit User " + cur.Key())

	name, err := getSimpleText(a.reader, fmt.Sprintf("Name [%s]", cur.Name), a.prompter())
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", cur.Email), a.prompter())
	if err != nil {
		return err
	}
	a.println("New password (leave empty to keep)")
	pw, err := getPassword(a.prompter())
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	avatar, err := getSimpleText(a.reader, fmt.Sprintf("Avatar URL [%s]", cur.Avatar), a.prompter())
	if err != nil {
		return err
	}

	patch := diffUser(cur, name, email, string(pw), avatar)
	if patch.Empty() {
		a.println("Nothing to change.")
		return nil
	}
	if err := validatePatch(patch); err != nil {
		return a.rejectForm(err)
	}
	if _, err := a.await(ctx, a.store.Dispatch(ctx, store.UpdateUser(id, patch))); err != nil {
		return err
	}
	return a.Show(ctx)
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete")
	if err != nil {
		return err
	}
	a.navigate(store.RouteUsers)
	if _, err := a.await(ctx, a.store.Dispatch(ctx, store.DeleteUser(id))); err != nil {
		return err
	}
	return a.Show(ctx)
}

// Sort changes the display order of the users table. The loaded page is
// redrawn without fetching it again.
func (a *App) Sort(ctx context.Context, args []string) error {
	o, err := parseOrder(args)
	if err != nil {
		return err
	}
	a.order = o
	a.navigate(store.RouteUsers)
	return a.Show(ctx)
}

// Show renders the current screen.
func (a *App) Show(_ context.Context) error {
	st := a.store.State()
	switch a.currentRoute() {
	case store.RouteHome:
		a.println(a.view.homeScreen(st, a.session.Token(), a.session.Subject(), a.session.SavedAt(), a.now()))
	case store.RouteUsers:
		a.println(a.view.usersScreen(st.Users, a.config.PageSizes, a.order))
	default:
		a.println(a.view.loginScreen())
	}
	return nil
}

func (a *App) fetch(ctx context.Context, page, size int) error {
	a.navigate(store.RouteUsers)
	if _, err := a.await(ctx, a.store.Dispatch(ctx, store.FetchUsers(page, size))); err != nil {
		return err
	}
	return a.Show(ctx)
}

// await blocks until t settles. The loading line and the toast for the
// outcome are printed from the store's callbacks.
func (a *App) await(ctx context.Context, t *store.Task) (store.Result, error) {
	return t.Wait(ctx)
}

func (a *App) rejectForm(err error) error {
	var v ValidationError
	if errors.As(err, &v) {
		a.println(a.view.validation(v))
		return nil
	}
	return err
}

// pageSize is the current page size, or the first offered size when the
// current one is not offered.
func (a *App) pageSize(st store.State) int {
	if slices.Contains(a.config.PageSizes, st.Users.PageSize) || len(a.config.PageSizes) == 0 {
		return st.Users.PageSize
	}
	return a.config.PageSizes[0]
}

func (a *App) parseSize(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !slices.Contains(a.config.PageSizes, n) {
		return 0, fmt.Errorf("page size must be one of %v", a.config.PageSizes)
	}
	return n, nil
}

func parsePositive(s, what string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive number, got %q", what, s)
	}
	return n, nil
}

// checkPage rejects pages whose offset does not fit in an int.
func checkPage(page, size int) error {
	if size > 0 && page-1 > math.MaxInt/size {
		return fmt.Errorf("page %d is out of range", page)
	}
	return nil
}

func parseID(args []string, cmd string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <id>", cmd)
	}
	return parsePositive(args[0], "id")
}
