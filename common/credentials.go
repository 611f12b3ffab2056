package common

// Credentials holds what a user types to open a session against the API.
type Credentials struct {
	Login    string
	Password string
}
