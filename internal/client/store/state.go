package store

import (
	"slices"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

// Session is the authentication slice of State. An empty Token means signed
// out.
type Session struct {
	Token     string
	Pending   bool
	LastError string
}

// Users is the user-collection slice of State. Page and PageSize mirror the
// latest issued FetchUsers.
type Users struct {
	Items     []models.User
	Pending   bool
	LastError string
	Page      int
	PageSize  int
}

// State is what the view renders. Values handed out by the store share item
// slices with the store and must be treated as read-only.
type State struct {
	Session Session
	Users   Users

	latest   [kindCount]uint64
	inFlight [kindCount]bool
}

// NewState returns the state of a freshly started client holding token.
func NewState(token string) State {
	return State{
		Session: Session{Token: token},
		Users:   Users{Page: DefaultPage, PageSize: DefaultPageSize},
	}
}

func (s State) SignedIn() bool {
	return s.Session.Token != ""
}

// LatestSeq is the sequence number of the newest issued command of k.
func (s State) LatestSeq(k Kind) uint64 {
	if !k.Valid() {
		return 0
	}
	return s.latest[k]
}

// InFlight reports whether the newest command of k has not settled yet.
func (s State) InFlight(k Kind) bool {
	return k.Valid() && s.inFlight[k]
}

// Authoritative reports whether an outcome for (k, seq) would be applied.
func (s State) Authoritative(k Kind, seq uint64) bool {
	return k.Valid() && s.inFlight[k] && s.latest[k] == seq
}

// Clone returns a copy that shares nothing mutable with s.
func (s State) Clone() State {
	s.Users.Items = slices.Clone(s.Users.Items)
	return s
}
