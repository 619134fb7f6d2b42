package awsstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"blog-publisher/internal/domain"
)

// SecretsManagerAPI is the slice of the Secrets Manager client this
// adapter uses.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerStore resolves secret references (names or ARNs)
// through AWS Secrets Manager.
type SecretsManagerStore struct {
	client SecretsManagerAPI
}

// NewSecretsManagerStore wraps a Secrets Manager client.
func NewSecretsManagerStore(client SecretsManagerAPI) *SecretsManagerStore {
	return &SecretsManagerStore{client: client}
}

// GetSecret fetches the secret string for ref. A missing or empty
// secret is an error; callers treat it as fatal for the run.
func (s *SecretsManagerStore) GetSecret(ctx context.Context, ref string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(ref),
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch secret %q: %w", ref, err)
	}
	value := strings.TrimSpace(aws.ToString(out.SecretString))
	if value == "" {
		return "", fmt.Errorf("secret %q: %w", ref, domain.ErrEmptySecret)
	}
	return value, nil
}

var _ domain.SecretStore = (*SecretsManagerStore)(nil)
