package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Licencia-api/internal/domain"
)

func TestPgCode_ErrorEnvuelto(t *testing.T) {
	err := fmt.Errorf("insert company: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isFKViolation(err))
	assert.False(t, isUniqueViolation(errors.New("23505 en el texto no cuenta")))
}

func TestIsFKViolation(t *testing.T) {
	assert.True(t, isFKViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isFKViolation(nil))
}

func TestIsInvalidID(t *testing.T) {
	assert.True(t, isInvalidID(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isInvalidID(pgx.ErrNoRows))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("otro")))
}

func TestMapTxError_ConflictosDeConcurrencia(t *testing.T) {
	for _, code := range []string{"40001", "40P01"} {
		err := mapTxError(fmt.Errorf("commit transaction: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, domain.ErrConflict, code)
	}
}

func TestMapTxError_OtrosErroresSinCambios(t *testing.T) {
	orig := fmt.Errorf("%w: paquete", domain.ErrNotFound)
	assert.Same(t, orig, mapTxError(orig))
	assert.Nil(t, mapTxError(nil))
}

func TestEmbeddedMigrations_ParesUpDown(t *testing.T) {
	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	assert.NoError(t, err)
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}
	assert.True(t, names["000001_init.up.sql"])
	assert.True(t, names["000001_init.down.sql"])
}
