// Package user holds the user record, the notice routine that walks a
// list of users, and the Manager container that the stores build on.
package user

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// User is a single user record.  ID and Name are mandatory; Email is nil
// when the user has no address on file.  Values are not mutated after
// construction.
type User struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name" validate:"required"`
	Email *string `json:"email"`
}

// New builds a user without an email.
func New(id int64, name string) User {
	return User{ID: id, Name: name}
}

// NewWithEmail builds a user whose email is stored exactly as given.
func NewWithEmail(id int64, name, email string) User {
	e := email
	return User{ID: id, Name: name, Email: &e}
}

// HasEmail reports whether an email was given, including an empty one.
func (u User) HasEmail() bool {
	return u.Email != nil
}

// EmailOrEmpty returns the email or "" when absent.
func (u User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

func (u User) String() string {
	return fmt.Sprintf("User %d: %s", u.ID, u.Name)
}

// Validate checks the mandatory fields.  Constructors never call it; it
// is applied where records enter the process (input files, create
// requests).
func (u User) Validate() error {
	if err := validate.Struct(u); err != nil {
		return fmt.Errorf("invalid user %d: %w", u.ID, err)
	}
	return nil
}
