package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
	"github.com/dmitrijs2005/adminpanel/internal/client/session"
	"github.com/dmitrijs2005/adminpanel/internal/client/store"
)

const loadingText = "Loading..."

// view renders screens and toasts. Styles come from a renderer bound to the
// output, so colors are dropped automatically when it is not a terminal.
type view struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func newView(w io.Writer) *view {
	r := lipgloss.NewRenderer(w)
	return &view{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
		border:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (v *view) toast(n store.Notification) string {
	if n.Level == store.LevelError {
		return v.failure.Render("✖ " + n.Text)
	}
	return v.success.Render("✔ " + n.Text)
}

func (v *view) loginScreen() string {
	return v.title.Render("Login") + "\n" +
		v.muted.Render("Type 'login' to sign in.")
}

// homeScreen is the dashboard. token is only decoded for display.
func (v *view) homeScreen(st store.State, token, subject string, savedAt, now time.Time) string {
	var b strings.Builder
	b.WriteString(v.title.Render("Home"))
	b.WriteByte('\n')

	who := "Signed in"
	if subject != "" {
		who += " as user " + subject
	}
	b.WriteString(who)
	b.WriteByte('\n')

	if claims, err := session.Describe(token); err == nil && !claims.ExpiresAt.IsZero() {
		state := "expires"
		if claims.Expired(now) {
			state = "expired"
		}
		fmt.Fprintf(&b, "Token %s %s\n", state, claims.ExpiresAt.Local().Format(time.DateTime))
	}
	if !savedAt.IsZero() {
		fmt.Fprintf(&b, "Session saved %s\n", savedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintf(&b, "Users page %d, %d per page\n", st.Users.Page, st.Users.PageSize)
	b.WriteString(v.muted.Render("Type 'users' to manage users, 'logout' to sign out."))
	return b.String()
}

func (v *view) usersScreen(u store.Users, sizes []int, order userOrder) string {
	var b strings.Builder
	b.WriteString(v.title.Render("Users"))
	b.WriteByte('\n')

	opts := make([]string, len(sizes))
	for i, n := range sizes {
		opts[i] = strconv.Itoa(n)
	}
	b.WriteString(v.muted.Render(fmt.Sprintf("Page %d | Page Size %d (%s)", u.Page, u.PageSize, strings.Join(opts, ", "))))
	b.WriteByte('\n')
	if o := order.String(); o != "" {
		b.WriteString(v.muted.Render("Sorted by " + o))
		b.WriteByte('\n')
	}

	switch {
	case u.Pending:
		b.WriteString(loadingText)
	case u.LastError != "":
		b.WriteString(v.failure.Render(u.LastError))
	case len(u.Items) == 0:
		b.WriteString("There are no records to display")
	default:
		b.WriteString(v.usersTable(order.apply(u.Items)))
	}
	return b.String()
}

func (v *view) usersTable(items []models.User) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(v.border).
		Headers("ID", "Name", "Email", "Avatar").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return v.header
			}
			return v.cell
		})
	for _, usr := range items {
		t.Row(usr.Key(), usr.Name, usr.Email, usr.Avatar)
	}
	return t.String()
}

func (v *view) validation(err ValidationError) string {
	lines := make([]string, 0, len(err))
	for _, fe := range err {
		lines = append(lines, v.failure.Render(fe.Field+": "+fe.Message))
	}
	return strings.Join(lines, "\n")
}
