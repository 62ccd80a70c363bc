package parking

import (
	"fmt"
	"slices"
	"strings"
)

var (
	ValidSizes        = []string{"small", "medium", "large"}
	ValidVehicleTypes = []string{"car", "taxi", "truck", "any"}
)

func validSize(size string) error {
	if !slices.Contains(ValidSizes, size) {
		return fmt.Errorf("%w: invalid size: %s, must be one of %s",
			ErrValidation, size, strings.Join(ValidSizes, ", "))
	}
	return nil
}

func validVehicleType(vehicleType string) error {
	if !slices.Contains(ValidVehicleTypes, vehicleType) {
		return fmt.Errorf("%w: invalid vehicle type: %s, must be one of %s",
			ErrValidation, vehicleType, strings.Join(ValidVehicleTypes, ", "))
	}
	return nil
}

// ValidEmail does a very basic shape check on an email address.
func ValidEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}

	// Must contain "@" and not be the first or last character
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	return nil
}
