package models

import "fmt"

// User is an account of the service. Password is only ever sent, the API
// does not return it.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name"`
}

var userFields = []string{"id", "email", "password", "name"}

func UserTemplate() User { return User{} }

func (u User) GetID() string { return u.ID }

func (u User) Fields() []string { return userFields }

func (u User) Value(field string) any {
	switch field {
	case "id":
		return u.ID
	case "email":
		return u.Email
	case "password":
		return u.Password
	case "name":
		return u.Name
	}
	return nil
}

func (u User) With(field, text string) (User, error) {
	switch field {
	case "id":
		return u, fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	case "email":
		u.Email = text
	case "password":
		u.Password = text
	case "name":
		u.Name = text
	default:
		return u, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return u, nil
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
