package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequiresJWTSecretInProduction(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"production without secret", Config{Env: "production"}, ErrMissingJWTSecret},
		{"production with secret", Config{Env: "production", JWTSecret: "s3cret"}, nil},
		{"development without secret", Config{Env: "development"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tc.cfg), tc.wantErr)
		})
	}
}
