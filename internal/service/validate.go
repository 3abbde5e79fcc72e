package service

import (
	"net/mail"
	"strings"
)

// Characters never allowed in names or screen names.
const disallowedNameChars = `<,"(){}@*$%?=>:|;#`

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Reason: "not a valid address"}
	}
	return nil
}

func validateName(field, name string) error {
	if strings.ContainsAny(name, disallowedNameChars) {
		return &ValidationError{Field: field, Reason: "contains disallowed characters"}
	}
	return nil
}

func validateScreenName(screenName string) error {
	if screenName == "" {
		return &ValidationError{Field: "screen_name", Reason: "must not be empty"}
	}
	return validateName("screen_name", screenName)
}

func validateRoomName(name string) error {
	if name == "" {
		return &ValidationError{Field: "room_name", Reason: "must not be empty"}
	}
	return nil
}
