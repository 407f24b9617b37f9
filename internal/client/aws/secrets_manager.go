package aws

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SecretsAPI is the subset of the Secrets Manager client used here.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps the AWS Secrets Manager client.
type SecretsManagerClient struct {
	svc SecretsAPI
}

// NewSecretsManagerClient creates and initializes a new Secrets Manager client.
// It uses the default AWS configuration chain (environment variables, shared config, IAM role).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load AWS SDK config")
	}
	return &SecretsManagerClient{svc: secretsmanager.NewFromConfig(cfg)}, nil
}

// NewSecretsManagerClientFromAPI wraps an existing Secrets Manager API.
func NewSecretsManagerClientFromAPI(svc SecretsAPI) *SecretsManagerClient {
	return &SecretsManagerClient{svc: svc}
}

// GetSecretString fetches a secret string from AWS Secrets Manager using an ARN specified by an environment variable.
// If the ARN environment variable is not set or fetching fails, it falls back to
// reading the secret directly from fallbackEnvVar.
func (c *SecretsManagerClient) GetSecretString(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (string, error) {
	secretArn := os.Getenv(secretArnEnvVar)

	if secretArn != "" && c.svc != nil {
		logger.Log.Debug("Attempting to fetch secret from Secrets Manager", zap.String("arnEnvVar", secretArnEnvVar))
		result, err := c.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretArn),
		})
		if err == nil && result.SecretString != nil && *result.SecretString != "" {
			logger.Log.Info("Fetched secret from Secrets Manager", zap.String("arnEnvVar", secretArnEnvVar))
			return *result.SecretString, nil
		}
		logger.Log.Warn("Failed to retrieve secret from Secrets Manager, falling back to env var",
			zap.String("arnEnvVar", secretArnEnvVar),
			zap.String("fallbackEnvVar", fallbackEnvVar),
			zap.Error(err),
		)
	}

	if secretValue := os.Getenv(fallbackEnvVar); secretValue != "" {
		logger.Log.Info("Using secret value from direct environment variable", zap.String("envVar", fallbackEnvVar))
		return secretValue, nil
	}

	return "", errors.Errorf("secret not found using ARN env var '%s' or direct env var '%s'", secretArnEnvVar, fallbackEnvVar)
}

// GetSigningKey fetches a secret and parses it as an ed25519 signing key.
func (c *SecretsManagerClient) GetSigningKey(ctx context.Context, secretArnEnvVar string, fallbackEnvVar string) (ed25519.PrivateKey, error) {
	secret, err := c.GetSecretString(ctx, secretArnEnvVar, fallbackEnvVar)
	if err != nil {
		return nil, err
	}
	key, err := ParseSigningKey(secret)
	if err != nil {
		return nil, errors.Wrapf(err, "secret from %s", secretArnEnvVar)
	}
	logger.Log.Info("Loaded signing key", zap.String("address", sol.PublicKeyFromPrivate(key).String()))
	return key, nil
}

// ParseSigningKey accepts a keypair as base58 text or as a JSON array of
// bytes, the layout wallet tooling writes. Both the 64-byte keypair and the
// bare 32-byte seed are accepted.
func ParseSigningKey(secret string) (ed25519.PrivateKey, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("signing key is empty")
	}

	var raw []byte
	if strings.HasPrefix(secret, "[") {
		var values []int
		if err := json.Unmarshal([]byte(secret), &values); err != nil {
			return nil, errors.Wrap(err, "signing key is not a JSON byte array")
		}
		raw = make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return nil, errors.Errorf("signing key byte %d out of range: %d", i, v)
			}
			raw[i] = byte(v)
		}
	} else {
		raw = sol.DecodeBase58(secret)
		if len(raw) == 0 {
			return nil, errors.New("signing key is not valid base58")
		}
	}

	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		key := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !key.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(raw[ed25519.SeedSize:])) {
			return nil, errors.New("signing key public half does not match its seed")
		}
		return key, nil
	default:
		return nil, errors.Errorf("signing key has %d bytes, want %d or %d", len(raw), ed25519.SeedSize, ed25519.PrivateKeySize)
	}
}
