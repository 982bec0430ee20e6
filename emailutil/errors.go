package emailutil

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every error Normalize, Fix and Suggest return.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrEmpty is returned for empty or whitespace-only input.
	ErrEmpty = fmt.Errorf("%w: email is empty", ErrInvalidArgument)

	// ErrInvalidFormat is returned when the cleaned input fails IsValid.
	ErrInvalidFormat = fmt.Errorf("%w: invalid email format", ErrInvalidArgument)
)
