package cli

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

const minPasswordLen = 4

// FieldError is one failed rule of a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed field of a submitted form.
type ValidationError []FieldError

func (v ValidationError) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (v ValidationError) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// validEmail accepts a bare address such as "john@mail.com". Display names
// and angle brackets are rejected.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateLogin(email, password string) error {
	var v ValidationError
	switch {
	case email == "":
		v = append(v, FieldError{"email", "Email is required!"})
	case !validEmail(email):
		v = append(v, FieldError{"email", "Invalid email!"})
	}
	if password == "" {
		v = append(v, FieldError{"password", "Password is required!"})
	}
	return v.orNil()
}

// validateUser checks a complete user form, as submitted by "add".
func validateUser(u models.NewUser) error {
	var v ValidationError
	if u.Name == "" {
		v = append(v, FieldError{"name", "Name is required!"})
	}
	switch {
	case u.Email == "":
		v = append(v, FieldError{"email", "Email is required!"})
	case !validEmail(u.Email):
		v = append(v, FieldError{"email", "Invalid email"})
	}
	switch {
	case u.Password == "":
		v = append(v, FieldError{"password", "Password is required!"})
	case len(u.Password) < minPasswordLen:
		v = append(v, FieldError{"password", "Too Short!"})
	}
	if u.Avatar != "" && !validURL(u.Avatar) {
		v = append(v, FieldError{"avatar", "Invalid URL!"})
	}
	return v.orNil()
}

// validatePatch checks only the fields an edit changes.
func validatePatch(p models.UserPatch) error {
	var v ValidationError
	if p.Name != nil && *p.Name == "" {
		v = append(v, FieldError{"name", "Name is required!"})
	}
	if p.Email != nil && !validEmail(*p.Email) {
		v = append(v, FieldError{"email", "Invalid email"})
	}
	if p.Password != nil && len(*p.Password) < minPasswordLen {
		v = append(v, FieldError{"password", "Too Short!"})
	}
	if p.Avatar != nil && *p.Avatar != "" && !validURL(*p.Avatar) {
		v = append(v, FieldError{"avatar", "Invalid URL!"})
	}
	return v.orNil()
}

// diffUser builds the patch that turns cur into the edited values. Empty
// input keeps the current value, so edits can never blank a field.
func diffUser(cur models.User, name, email, password, avatar string) models.UserPatch {
	var p models.UserPatch
	if name != "" && name != cur.Name {
		p.Name = &name
	}
	if email != "" && email != cur.Email {
		p.Email = &email
	}
	if password != "" {
		p.Password = &password
	}
	if avatar != "" && avatar != cur.Avatar {
		p.Avatar = &avatar
	}
	return p
}
