package tools

import (
	"strings"

	"github.com/crewair/booking-assistant/internal/agent/model"
)

// Validate checks passenger details. The email rule only asks for an "@"
// and a "." anywhere in the string.
func Validate(name, email string) model.ValidationResult {
	nameValid := len(strings.Fields(strings.TrimSpace(name))) >= 2
	emailValid := strings.Contains(email, "@") && strings.Contains(email, ".")
	return model.ValidationResult{
		NameValid:  nameValid,
		EmailValid: emailValid,
		AllValid:   nameValid && emailValid,
	}
}
