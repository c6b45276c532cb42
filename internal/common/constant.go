// Package common holds constants shared by the admin client packages.
package common

const (
	// TokenStorageKey is the session store key of the access token.
	TokenStorageKey = "token"

	// AuthorizationHeader carries the bearer token on API requests.
	AuthorizationHeader = "Authorization"

	// DefaultAPIBaseURL is the users API the client talks to out of the box.
	DefaultAPIBaseURL = "https://api.escuelajs.co/api/v1"
)
