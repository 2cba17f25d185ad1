package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntRepromptsUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("abc\n-3\n 7 \n"), &out)

	v, err := p.Int("Qty: ", NonNegative)
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
	assert.Contains(t, out.String(), `"abc" is not a whole number`)
	assert.Contains(t, out.String(), "0 or more")
	assert.Equal(t, 3, strings.Count(out.String(), "Qty: "))
}

func TestOptionalInt(t *testing.T) {
	p := New(strings.NewReader("\n1.5\n42\n"), io.Discard)

	_, ok, err := p.OptionalInt("Price: ", NonNegative)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := p.OptionalInt("Price: ", NonNegative)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)
}

func TestYesNo(t *testing.T) {
	p := New(strings.NewReader("maybe\nY\nno\n"), io.Discard)

	yes, err := p.YesNo("Continue?")
	require.NoError(t, err)
	assert.True(t, yes)

	yes, err = p.YesNo("Continue?")
	require.NoError(t, err)
	assert.False(t, yes)
}

func TestEOF(t *testing.T) {
	p := New(strings.NewReader(""), io.Discard)

	_, err := p.Line("> ")
	assert.ErrorIs(t, err, io.EOF)

	_, err = p.Int("> ", nil)
	assert.ErrorIs(t, err, io.EOF)
}
