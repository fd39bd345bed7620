package form

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

const (
	MsgMissingDot   = "You're missing a . after the @"
	MsgInvalidEmail = "Please enter a valid email address"
)

// Validator returns a message for an invalid value, or "".
type Validator func(value string) string

// Email accepts syntactically valid addresses that have a '.' after the '@'.
func Email(value string) string {
	at := strings.Index(value, "@")
	if at < 0 {
		return MsgInvalidEmail
	}
	if !strings.Contains(value[at:], ".") {
		return MsgMissingDot
	}
	if !govalidator.IsEmail(value) {
		return MsgInvalidEmail
	}
	return ""
}
