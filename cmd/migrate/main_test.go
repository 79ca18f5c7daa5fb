package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr      error
	steps      []int
	version    uint
	dirty      bool
	versionErr error
	forced     []int
}

func (f *fakeMigrator) Up() error { return f.upErr }

func (f *fakeMigrator) Steps(n int) error {
	f.steps = append(f.steps, n)
	return nil
}

func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, f.dirty, f.versionErr }

func (f *fakeMigrator) Force(v int) error {
	f.forced = append(f.forced, v)
	return nil
}

func TestRunUp(t *testing.T) {
	msg, err := run(&fakeMigrator{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "migrations complete", msg)

	msg, err = run(&fakeMigrator{upErr: migrate.ErrNoChange}, []string{"up"})
	require.NoError(t, err)
	assert.Equal(t, "schema already up to date", msg)

	_, err = run(&fakeMigrator{upErr: errors.New("syntax error")}, nil)
	assert.ErrorContains(t, err, "syntax error")
}

func TestRunDownAndForce(t *testing.T) {
	m := &fakeMigrator{}
	_, err := run(m, []string{"down"})
	require.NoError(t, err)
	assert.Equal(t, []int{-1}, m.steps)

	msg, err := run(m, []string{"force", "1"})
	require.NoError(t, err)
	assert.Equal(t, "forced version to 1", msg)
	assert.Equal(t, []int{1}, m.forced)

	_, err = run(m, []string{"force"})
	assert.Error(t, err)
	_, err = run(m, []string{"force", "one"})
	assert.Error(t, err)
}

func TestRunVersion(t *testing.T) {
	msg, err := run(&fakeMigrator{version: 1, dirty: true}, []string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "version 1 (dirty=true)", msg)

	msg, err = run(&fakeMigrator{versionErr: migrate.ErrNilVersion}, []string{"version"})
	require.NoError(t, err)
	assert.Equal(t, "no migrations applied", msg)
}

func TestRunUnknownCommand(t *testing.T) {
	_, err := run(&fakeMigrator{}, []string{"sideways"})
	assert.EqualError(t, err, `unknown command "sideways"`)
}
