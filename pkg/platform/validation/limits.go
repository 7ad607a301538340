package validation

import (
	"fmt"

	dErrors "trsync/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	MaxBodySize = 64 * 1024
)

// Slice element count limits
const (
	// MaxSubjects is the number of ITT subject slots on an episode.
	MaxSubjects = 3
)

// String element length limits
const (
	// MaxNameLength is the maximum length of a first, middle or last name.
	MaxNameLength = 100

	// MaxEmailLength is the maximum length of an email address.
	MaxEmailLength = 255

	// MaxAddressLineLength is the maximum length of one address line.
	MaxAddressLineLength = 200

	// MaxCodeLength is the maximum length of a reference data code or UKPRN.
	MaxCodeLength = 50

	// MaxHusidLength is the maximum length of a HESA student identifier.
	MaxHusidLength = 50
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates that each string in a slice does not exceed the maximum length.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if len(v) > max {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
		}
	}
	return nil
}
