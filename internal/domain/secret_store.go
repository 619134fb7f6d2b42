package domain

import "context"

// SecretStore resolves a configured secret reference to its value.
// Resolving to an empty value is an error (ErrEmptySecret).
type SecretStore interface {
	GetSecret(ctx context.Context, ref string) (string, error)
}
