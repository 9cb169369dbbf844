package identity

import "errors"

var (
	// ErrConflict indicates the email, phone, or NIN collides with an
	// existing record.
	ErrConflict = errors.New("identity already exists with the provided email, phone, or NIN")

	// ErrNotFound indicates the referenced identity does not exist.
	ErrNotFound = errors.New("identity not found")

	// ErrInvalidArgument indicates malformed or missing caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so the response never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
