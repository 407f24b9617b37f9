package aws

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/dudedrops/dudes-api/internal/logger"
	sol "github.com/dudedrops/dudes-api/internal/solana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

type fakeSecrets struct {
	value string
	err   error
	calls int
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.value)}, nil
}

func testKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{9}, ed25519.SeedSize))
}

func jsonBytes(t *testing.T, b []byte) string {
	t.Helper()
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	raw, err := json.Marshal(ints)
	require.NoError(t, err)
	return string(raw)
}

func TestParseSigningKey(t *testing.T) {
	key := testKey()
	tampered := append([]byte(nil), key...)
	tampered[63] ^= 0xff

	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{name: "base58 keypair", secret: sol.EncodeBase58(key)},
		{name: "base58 seed", secret: sol.EncodeBase58(key.Seed())},
		{name: "json keypair", secret: jsonBytes(t, key)},
		{name: "json seed with whitespace", secret: "  " + jsonBytes(t, key.Seed()) + "\n"},
		{name: "empty", secret: " ", wantErr: "signing key is empty"},
		{name: "not base58", secret: "0OIl", wantErr: "not valid base58"},
		{name: "broken json", secret: "[1,2,", wantErr: "not a JSON byte array"},
		{name: "byte out of range", secret: "[1,256]", wantErr: "out of range"},
		{name: "wrong length", secret: jsonBytes(t, key[:16]), wantErr: "has 16 bytes"},
		{name: "mismatched public half", secret: jsonBytes(t, tampered), wantErr: "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSigningKey(tt.secret)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, key.Equal(got))
		})
	}
}

func TestGetSecretString(t *testing.T) {
	ctx := context.Background()

	t.Run("reads from secrets manager when the ARN is set", func(t *testing.T) {
		t.Setenv("TEST_SECRET_ARN", "arn:aws:secretsmanager:us-east-1:000000000000:secret:cosigner")
		t.Setenv("TEST_SECRET", "from-env")
		svc := &fakeSecrets{value: "from-aws"}

		got, err := NewSecretsManagerClientFromAPI(svc).GetSecretString(ctx, "TEST_SECRET_ARN", "TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "from-aws", got)
		assert.Equal(t, 1, svc.calls)
	})

	t.Run("falls back when the fetch fails", func(t *testing.T) {
		t.Setenv("TEST_SECRET_ARN", "arn:aws:secretsmanager:us-east-1:000000000000:secret:cosigner")
		t.Setenv("TEST_SECRET", "from-env")
		svc := &fakeSecrets{err: errors.New("access denied")}

		got, err := NewSecretsManagerClientFromAPI(svc).GetSecretString(ctx, "TEST_SECRET_ARN", "TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "from-env", got)
	})

	t.Run("skips secrets manager without an ARN", func(t *testing.T) {
		t.Setenv("TEST_SECRET_ARN", "")
		t.Setenv("TEST_SECRET", "from-env")
		svc := &fakeSecrets{value: "from-aws"}

		got, err := NewSecretsManagerClientFromAPI(svc).GetSecretString(ctx, "TEST_SECRET_ARN", "TEST_SECRET")
		require.NoError(t, err)
		assert.Equal(t, "from-env", got)
		assert.Zero(t, svc.calls)
	})

	t.Run("fails when neither source is set", func(t *testing.T) {
		t.Setenv("TEST_SECRET_ARN", "")
		t.Setenv("TEST_SECRET", "")

		_, err := NewSecretsManagerClientFromAPI(&fakeSecrets{}).GetSecretString(ctx, "TEST_SECRET_ARN", "TEST_SECRET")
		assert.Error(t, err)
	})
}

func TestGetSigningKey(t *testing.T) {
	key := testKey()
	t.Setenv("TEST_SECRET_ARN", "")
	t.Setenv("TEST_SECRET", sol.EncodeBase58(key))

	got, err := NewSecretsManagerClientFromAPI(&fakeSecrets{}).GetSigningKey(context.Background(), "TEST_SECRET_ARN", "TEST_SECRET")
	require.NoError(t, err)
	assert.True(t, key.Equal(got))

	t.Setenv("TEST_SECRET", "[1,2,3]")
	_, err = NewSecretsManagerClientFromAPI(&fakeSecrets{}).GetSigningKey(context.Background(), "TEST_SECRET_ARN", "TEST_SECRET")
	assert.Error(t, err)
}
