// Package cli provides the interactive command-line view of the users admin.
//
// App wires configuration, the sqlite-backed session, the REST client and
// the state store, then runs a REPL over three screens: login, home and
// users. Every command that talks to the API is dispatched to the store and
// awaited through its Task; the store prints one toast per outcome and moves
// between screens on login and on a rejected session.
//
// Forms validate input before anything is sent: emails must be bare
// addresses, passwords at least four characters and avatars absolute
// http(s) URLs.
package cli
