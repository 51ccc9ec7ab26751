package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) error {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	return root.Execute()
}

func TestRootCmd_RegistraSubcomandos(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["bootstrap-admin"])

	migrate, _, err := root.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "down", migrate.Name())
	assert.NotNil(t, migrate.Flags().Lookup("steps"))
}

func TestMigrateDown_RechazaStepsNoPositivos(t *testing.T) {
	err := execute("migrate", "down", "--steps", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}

func TestBootstrapAdmin_FlagsRequeridos(t *testing.T) {
	err := execute("bootstrap-admin", "--name", "Ana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone")
}

func TestBootstrapAdmin_SinPassword(t *testing.T) {
	t.Setenv(passwordEnv, "")
	err := execute("bootstrap-admin", "--name", "Ana", "--phone", "5550000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), passwordEnv)
}
