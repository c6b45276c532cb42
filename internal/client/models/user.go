// Package models defines the records exchanged with the users API.
package models

import "strconv"

// User is a user record as returned by the API. ID is assigned by the server
// and is the record's identity.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	Avatar   string `json:"avatar"`
}

func (u User) Key() string {
	return strconv.Itoa(u.ID)
}

// NewUser is the body of a create request.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// UserPatch is the body of an update request; nil fields are left unchanged
// on the server.
type UserPatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Avatar == nil
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
