package cli

import (
	"errors"
	"slices"
	"strings"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

// userOrder is the display order of the users table. The zero value keeps
// the order the server returned.
type userOrder struct {
	field string
	desc  bool
}

var errSortUsage = errors.New("usage: sort name|email|off [desc]")

func parseOrder(args []string) (userOrder, error) {
	if len(args) == 0 || len(args) > 2 {
		return userOrder{}, errSortUsage
	}
	var o userOrder
	switch strings.ToLower(args[0]) {
	case "name", "email":
		o.field = strings.ToLower(args[0])
	case "off":
		if len(args) > 1 {
			return userOrder{}, errSortUsage
		}
		return userOrder{}, nil
	default:
		return userOrder{}, errSortUsage
	}
	if len(args) == 2 {
		switch strings.ToLower(args[1]) {
		case "desc":
			o.desc = true
		case "asc":
		default:
			return userOrder{}, errSortUsage
		}
	}
	return o, nil
}

func (o userOrder) String() string {
	if o.field == "" {
		return ""
	}
	if o.desc {
		return o.field + ", descending"
	}
	return o.field + ", ascending"
}

// apply returns items in display order. items itself is never reordered.
func (o userOrder) apply(items []models.User) []models.User {
	if o.field == "" {
		return items
	}
	key := func(u models.User) string { return strings.ToLower(u.Name) }
	if o.field == "email" {
		key = func(u models.User) string { return strings.ToLower(u.Email) }
	}

	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b models.User) int {
		c := strings.Compare(key(a), key(b))
		if o.desc {
			return -c
		}
		return c
	})
	return out
}
