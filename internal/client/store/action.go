package store

import "github.com/dmitrijs2005/adminpanel/internal/client/models"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Command is a request for one side effect. The set of commands is closed:
// only the types in this file implement it.
type Command interface {
	Kind() Kind
	command()
}

type LoginCommand struct {
	Credentials models.Credentials
}

type FetchUsersCommand struct {
	Page     int
	PageSize int
}

type CreateUserCommand struct {
	User models.NewUser
}

type UpdateUserCommand struct {
	ID    int
	Patch models.UserPatch
}

type DeleteUserCommand struct {
	ID int
}

func (LoginCommand) Kind() Kind      { return KindLogin }
func (FetchUsersCommand) Kind() Kind { return KindFetchUsers }
func (CreateUserCommand) Kind() Kind { return KindCreateUser }
func (UpdateUserCommand) Kind() Kind { return KindUpdateUser }
func (DeleteUserCommand) Kind() Kind { return KindDeleteUser }

func (LoginCommand) command()      {}
func (FetchUsersCommand) command() {}
func (CreateUserCommand) command() {}
func (UpdateUserCommand) command() {}
func (DeleteUserCommand) command() {}

// The constructors below only shape input. Field validation (email format,
// password length and so on) happens in the forms that collect it.

func Login(email, password string) LoginCommand {
	return LoginCommand{Credentials: models.Credentials{Email: email, Password: password}}
}

// FetchUsers asks for one page. A page or page size below 1 falls back to
// DefaultPage or DefaultPageSize.
func FetchUsers(page, pageSize int) FetchUsersCommand {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return FetchUsersCommand{Page: page, PageSize: pageSize}
}

func CreateUser(u models.NewUser) CreateUserCommand {
	return CreateUserCommand{User: u}
}

func UpdateUser(id int, patch models.UserPatch) UpdateUserCommand {
	return UpdateUserCommand{ID: id, Patch: patch}
}

func DeleteUser(id int) DeleteUserCommand {
	return DeleteUserCommand{ID: id}
}

// Offset is the number of records before page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
