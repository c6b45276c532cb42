package store

import "fmt"

// Kind identifies a command family. Supersession and sequence numbers are
// tracked per Kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindLogin
	KindFetchUsers
	KindCreateUser
	KindUpdateUser
	KindDeleteUser

	kindCount
)

// Kinds lists every known command kind.
var Kinds = []Kind{KindLogin, KindFetchUsers, KindCreateUser, KindUpdateUser, KindDeleteUser}

var kindNames = [kindCount]string{
	KindUnknown:    "unknown",
	KindLogin:      "login",
	KindFetchUsers: "fetch_users",
	KindCreateUser: "create_user",
	KindUpdateUser: "update_user",
	KindDeleteUser: "delete_user",
}

func (k Kind) Valid() bool {
	return k > KindUnknown && k < kindCount
}

func (k Kind) String() string {
	if k < KindUnknown || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a name as printed by String back to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown command kind %q", s)
}

// touchesUsers reports whether the kind reads or writes the users collection.
func (k Kind) touchesUsers() bool {
	switch k {
	case KindFetchUsers, KindCreateUser, KindUpdateUser, KindDeleteUser:
		return true
	}
	return false
}
