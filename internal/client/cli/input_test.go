package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  hello world \n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(in, "Name?", &out)
	require.Error(t, err)
}

// stubPasswords makes readPassword return the given values in order.
func stubPasswords(t *testing.T, values ...string) {
	t.Helper()
	oldRead, oldFd := readPassword, stdinFd
	t.Cleanup(func() { readPassword, stdinFd = oldRead, oldFd })

	stdinFd = func() int { return 0 }
	readPassword = func(int) ([]byte, error) {
		if len(values) == 0 {
			return nil, errors.New("no more input")
		}
		v := values[0]
		values = values[1:]
		return []byte(v), nil
	}
}

func TestGetPassword(t *testing.T) {
	stubPasswords(t, "1234")
	var out bytes.Buffer

	pw, err := GetPassword("PIN", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("1234"), pw)
	assert.Equal(t, "PIN: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	stubPasswords(t)
	var out bytes.Buffer
	_, err := GetPassword("PIN", &out)
	require.Error(t, err)
}
