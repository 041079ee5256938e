package validate

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/medicabinet/cabinet/pkg/apperror"
)

var v = validator.New()

// SecurityNumber checks that a patient security number is exactly 15
// ASCII digits. Returns InvalidSecurityNumber otherwise.
func SecurityNumber(securityNumber string) error {
	if err := v.Var(securityNumber, "required,len=15,number"); err != nil {
		return apperror.InvalidSecurityNumber(securityNumber, err)
	}
	return nil
}

// Struct validates any struct carrying `validate` tags.
func Struct(s interface{}) error {
	return v.Struct(s)
}

// Age returns the number of whole years between birthDate and at.
func Age(birthDate, at time.Time) int {
	age := at.Year() - birthDate.Year()
	if at.Month() < birthDate.Month() ||
		(at.Month() == birthDate.Month() && at.Day() < birthDate.Day()) {
		age--
	}
	return age
}
