package store

import "errors"

// Event is anything the reducer may be handed. Events it does not know are
// ignored.
type Event interface {
	EventName() string
}

// Issued records that a command was dispatched with sequence number Seq.
type Issued struct {
	Command Command
	Seq     uint64
}

// Outcome is the completion of the command of Kind issued with Seq.
type Outcome struct {
	Kind   Kind
	Seq    uint64
	Result Result
}

// SignedOut drops the session token.
type SignedOut struct{}

func (Issued) EventName() string    { return "issued" }
func (Outcome) EventName() string   { return "outcome" }
func (SignedOut) EventName() string { return "signed_out" }

// Result is either a success carrying the command's payload or a failure.
//
// Payload types by kind: Login string (access token), FetchUsers
// []models.User, CreateUser and UpdateUser models.User, DeleteUser int (the
// deleted id).
type Result struct {
	Payload any
	Err     error
}

func Success(payload any) Result {
	return Result{Payload: payload}
}

// Failure wraps err; a nil err becomes a generic failure so the result never
// reads as a success.
func Failure(err error) Result {
	if err == nil {
		err = errors.New("unknown error")
	}
	return Result{Err: err}
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Message is the failure text, or "" for a success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
