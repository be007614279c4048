package form

import "errors"

var (
	ErrNilSubmitter     = errors.New("form: submitter is required")
	ErrSubmitInProgress = errors.New("form: submission already in progress")
	ErrAlreadySubmitted = errors.New("form: form already submitted")
	ErrEmptyEndpoint    = errors.New("form: endpoint is required")
)
