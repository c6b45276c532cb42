package store

// Level tells the view how to style a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

// Notification is the one user-visible message emitted per settled command.
type Notification struct {
	Kind  Kind
	Level Level
	Text  string
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Route is a screen of the view layer.
type Route string

const (
	RouteLogin Route = "login"
	RouteHome  Route = "home"
	RouteUsers Route = "users"
)

type Navigator interface {
	Navigate(r Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

var messages = [kindCount]struct{ ok, fail string }{
	KindLogin:      {"Login successful!", "Login failed: "},
	KindFetchUsers: {"Users fetched successfully!", "Failed to fetch users: "},
	KindCreateUser: {"User created successfully!", "Failed to create user: "},
	KindUpdateUser: {"User updated successfully!", "Failed to update user: "},
	KindDeleteUser: {"User deleted successfully!", "Failed to delete user: "},
}

// NotificationFor builds the message for the outcome r of a command of kind k.
func NotificationFor(k Kind, r Result) Notification {
	if !k.Valid() {
		k = KindUnknown
	}
	m := messages[k]
	if r.OK() {
		if m.ok == "" {
			m.ok = "Done."
		}
		return Notification{Kind: k, Level: LevelSuccess, Text: m.ok}
	}
	if m.fail == "" {
		m.fail = "Failed: "
	}
	return Notification{Kind: k, Level: LevelError, Text: m.fail + r.Message()}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

type nopNavigator struct{}

func (nopNavigator) Navigate(Route) {}
