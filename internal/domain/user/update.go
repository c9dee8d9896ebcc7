package user

import (
	"fmt"
	"regexp"
	"strings"
)

// standard address shape check, same rule for register and profile update
var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validGenders = map[string]struct{}{
	"male":   {},
	"female": {},
	"other":  {},
}

// FieldError names the offending field so the client can highlight it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ProfileUpdate is a partial update: nil means "leave as is". Each supplied
// field is validated independently; the whole update is rejected if any
// supplied field fails.
type ProfileUpdate struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	MedicalHistory *string `json:"medicalHistory"`
}

func (p ProfileUpdate) Validate() *FieldError {
	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		if email != "" && !emailRx.MatchString(email) {
			return &FieldError{Field: "email", Message: "Invalid email format"}
		}
	}

	if p.Age != nil {
		if *p.Age < 0 || *p.Age > 120 {
			return &FieldError{Field: "age", Message: "Age must be a number between 0 and 120"}
		}
	}

	if p.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*p.Gender))
		if g != "" {
			if _, ok := validGenders[g]; !ok {
				return &FieldError{Field: "gender", Message: "Gender must be one of: male, female, other"}
			}
		}
	}

	return nil
}

func ValidEmail(email string) bool {
	return emailRx.MatchString(NormalizeEmail(email))
}

// Apply returns a copy of u with the supplied fields written. Callers must
// run Validate first; Apply performs no checks of its own.
func (p ProfileUpdate) Apply(u User) User {
	if p.Username != nil {
		u.Username = strings.TrimSpace(*p.Username)
	}

	if p.Email != nil {
		u.Email = NormalizeEmail(*p.Email)
	}

	if p.Age != nil {
		age := *p.Age
		u.Age = &age
	}

	if p.Gender != nil {
		u.Gender = strings.ToLower(strings.TrimSpace(*p.Gender))
	}

	if p.MedicalHistory != nil {
		u.MedicalHistory = strings.TrimSpace(*p.MedicalHistory)
	}

	return u
}
