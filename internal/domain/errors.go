package domain

import "errors"

var (
	// ErrIndexConflict means the post index changed between read and
	// write. The run fails; the next scheduled trigger starts fresh.
	ErrIndexConflict = errors.New("post index version conflict")

	// ErrEmptyCompletion means the LLM returned no usable text.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrEmptySecret means the secret store resolved a reference to an
	// empty value.
	ErrEmptySecret = errors.New("secret resolved to empty value")
)
