// Package store keeps the admin client's view state consistent with the
// requests it has in flight.
//
// The view dispatches Commands (see Login, FetchUsers, CreateUser,
// UpdateUser, DeleteUser). Store.Dispatch records an Issued event, runs the
// command's effect on a background goroutine through Effects (normally a
// Runner talking to the users API with per-kind timeout and retry policies)
// and returns a Task future. When the effect completes an Outcome is applied
// by the pure Reduce function and subscribers see the new State.
//
// Every command kind carries its own sequence number. Only the outcome of the
// newest command of a kind is applied; older ones are discarded, so a slow
// response can never overwrite a newer one. Each applied outcome produces
// exactly one Notification.
//
// Side effects tied to outcomes live in the store, not in the reducer: a
// successful login persists the token and navigates home, and a 401/403 on a
// users command clears the session and navigates to the login screen, unless
// a newer login has replaced the token the command was sent with.
package store
