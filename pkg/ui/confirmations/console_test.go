package confirmations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmDeclinesWithoutTerminal(t *testing.T) {
	asked := false
	d := &ConsoleDialog{
		interactive: func() bool { return false },
		ask: func(string) (bool, error) {
			asked = true
			return true, nil
		},
	}

	ok, err := d.Confirm(".cursor")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, asked)
}

func TestConfirmAsksOnTerminal(t *testing.T) {
	var prompt string
	d := &ConsoleDialog{
		interactive: func() bool { return true },
		ask: func(p string) (bool, error) {
			prompt = p
			return true, nil
		},
	}

	ok, err := d.Confirm(".cursor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hide .cursor?", prompt)

	d.ask = func(string) (bool, error) { return true, errors.New("interrupted") }
	ok, err = d.Confirm(".idea")
	assert.Error(t, err)
	assert.False(t, ok)
}
