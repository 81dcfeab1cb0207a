package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRun_Args(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run(&out, strings.NewReader(""), []string{"first password", "second password"}, 4))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[0]), []byte("first password")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lines[1]), []byte("second password")))
	cost, err := bcrypt.Cost([]byte(lines[0]))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestRun_Stdin(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run(&out, strings.NewReader("from stdin 1\n"), nil, 4))

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out.String())), []byte("from stdin 1")))
}

func TestRun_RejectsShortPassword(t *testing.T) {
	var out bytes.Buffer

	err := run(&out, strings.NewReader(""), []string{"short"}, 4)

	assert.Error(t, err)
	assert.Empty(t, out.String())
}
