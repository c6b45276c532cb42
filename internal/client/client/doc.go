// Package client talks to the users REST API.
//
// # Overview
//
// The package provides:
//  1. The Client contract used by the effect runner: Login, ListUsers,
//     CreateUser, UpdateUser and DeleteUser.
//  2. HTTPClient, a net/http implementation that attaches the session's
//     bearer token to every request (see netx.BearerTransport), encodes
//     bodies as JSON and lifts fields such as access_token and error
//     messages out of responses with gjson.
//
// # Error Handling
//
// Transport failures are wrapped with ErrUnavailable. Non-2xx answers are
// returned as *APIError, which matches ErrUnauthorized (401/403) or
// ErrUnavailable (408/429/5xx) under errors.Is. Only ErrUnavailable is worth
// retrying.
//
// All operations accept context.Context and honor cancellation and deadlines.
// HTTPClient is safe for concurrent use.
package client
