package store

import (
	"slices"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

// Reduce is the only place State changes. It never mutates s: item slices are
// rebuilt whenever they change.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case Issued:
		return reduceIssued(s, e)
	case Outcome:
		return reduceOutcome(s, e)
	case SignedOut:
		s.Session.Token = ""
		return s
	}
	return s
}

func reduceIssued(s State, e Issued) State {
	if e.Command == nil {
		return s
	}
	k := e.Command.Kind()
	if !k.Valid() || e.Seq <= s.latest[k] {
		return s
	}

	s.latest[k] = e.Seq
	s.inFlight[k] = true

	if k == KindLogin {
		s.Session.LastError = ""
	} else {
		s.Users.LastError = ""
	}
	if c, ok := e.Command.(FetchUsersCommand); ok {
		s.Users.Page, s.Users.PageSize = c.Page, c.PageSize
	}

	return withPending(s)
}

func reduceOutcome(s State, e Outcome) State {
	// outcomes of superseded commands are dropped
	if !s.Authoritative(e.Kind, e.Seq) {
		return s
	}
	s.inFlight[e.Kind] = false
	s = withPending(s)

	if !e.Result.OK() {
		if e.Kind == KindLogin {
			s.Session.LastError = e.Result.Message()
		} else {
			s.Users.LastError = e.Result.Message()
		}
		return s
	}

	switch e.Kind {
	case KindLogin:
		if tok, ok := e.Result.Payload.(string); ok {
			s.Session.Token = tok
			s.Session.LastError = ""
		}
	case KindFetchUsers:
		if users, ok := e.Result.Payload.([]models.User); ok {
			s.Users.Items = slices.Clone(users)
			s.Users.LastError = ""
		}
	case KindCreateUser:
		if u, ok := e.Result.Payload.(models.User); ok {
			items := make([]models.User, 0, len(s.Users.Items)+1)
			s.Users.Items = append(append(items, s.Users.Items...), u)
			s.Users.LastError = ""
		}
	case KindUpdateUser:
		if u, ok := e.Result.Payload.(models.User); ok {
			items := slices.Clone(s.Users.Items)
			for i := range items {
				if items[i].ID == u.ID {
					items[i] = u
				}
			}
			s.Users.Items = items
			s.Users.LastError = ""
		}
	case KindDeleteUser:
		if id, ok := e.Result.Payload.(int); ok {
			s.Users.Items = slices.DeleteFunc(slices.Clone(s.Users.Items), func(u models.User) bool {
				return u.ID == id
			})
			s.Users.LastError = ""
		}
	}
	return s
}

func withPending(s State) State {
	s.Session.Pending = s.inFlight[KindLogin]
	s.Users.Pending = false
	for _, k := range Kinds {
		if k.touchesUsers() && s.inFlight[k] {
			s.Users.Pending = true
		}
	}
	return s
}
