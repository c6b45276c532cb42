package client

import (
	"context"

	"github.com/dmitrijs2005/adminpanel/internal/client/models"
)

// Client is the users API as seen by the effect runner.
type Client interface {
	Close() error
	Login(ctx context.Context, creds models.Credentials) (string, error)
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, error)
	CreateUser(ctx context.Context, u models.NewUser) (models.User, error)
	UpdateUser(ctx context.Context, id int, patch models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	Token() string
}
