package weather

import "errors"

var (
	// ErrInvalidURL is returned when an endpoint URL cannot be built.
	ErrInvalidURL = errors.New("invalid url")

	// ErrTransport covers network failures, non-2xx responses and an open circuit.
	ErrTransport = errors.New("transport error")

	// ErrDecode is returned when a response body does not match the expected schema.
	ErrDecode = errors.New("decode error")

	// ErrAlignmentNotFound means the requested date is absent from the returned
	// window, or fewer than 24 hourly entries remain from its first hour.
	ErrAlignmentNotFound = errors.New("date not found in forecast window")

	// ErrInvalidDate is returned for a date not in DateLayout.
	ErrInvalidDate = errors.New("invalid date")

	// ErrNoDateSelected is returned by Refresh before any date was selected.
	ErrNoDateSelected = errors.New("no date selected")
)
