package budget

import "errors"

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNoSources is returned when a submission carries no funding source
	ErrNoSources = errors.New("at least one funding source is required")

	// ErrInvalidSource is returned when a source name is empty or too long
	ErrInvalidSource = errors.New("invalid funding source")

	// ErrNoItems is returned when a source has no line items
	ErrNoItems = errors.New("at least one budget item is required per source")

	// ErrInvalidItem is returned when a line item label or value is invalid
	ErrInvalidItem = errors.New("invalid budget item")
)
