package domain

import "errors"

var (
	ErrFetch     = errors.New("failed to fetch exchange rates")
	ErrBadStatus = errors.New("feed returned non-2xx status")
	ErrParse     = errors.New("feed body is not valid JSON object")
	ErrEmptyBody = errors.New("feed body is empty")
	ErrPublish   = errors.New("failed to publish message")
	ErrProvision = errors.New("failed to check or create index")
	ErrWrite     = errors.New("failed to write document")
)
