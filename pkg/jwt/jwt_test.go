package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-ci/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate("s3cr3t", "user-1", "comptable", "facturation-ci", 10)
	require.NoError(t, err)

	userID, role, err := jwt.Parse("s3cr3t", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "comptable", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate("uno", "u", "admin", "x", 10)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("s", "u", "admin", "x", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("s", tok)
	assert.Error(t, err, "un token expirado debe rechazarse")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u", "admin", "x", 10)
	assert.Error(t, err)
}
