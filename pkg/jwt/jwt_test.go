package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Licencia-api/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	token, err := jwt.Generate("secreto", "admin-1", "ROOT", "licencia-api", 5)
	require.NoError(t, err)

	id, name, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", id)
	assert.Equal(t, "ROOT", name)
}

func TestParse_FirmaDeOtroSecreto(t *testing.T) {
	token, err := jwt.Generate("secreto", "admin-1", "ROOT", "licencia-api", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "admin-1", "ROOT", "licencia-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_RechazaAlgoritmoNone(t *testing.T) {
	claims := jwt.Claims{AdminID: "admin-1"}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_ValidaEntradas(t *testing.T) {
	_, err := jwt.Generate("", "admin-1", "ROOT", "x", 5)
	assert.Error(t, err)
	_, err = jwt.Generate("secreto", "", "ROOT", "x", 5)
	assert.Error(t, err)
}
