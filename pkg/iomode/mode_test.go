package iomode

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		mode string
		want Mode
	}{
		{"r", Read},
		{"r+", Read | Write},
		{"rb", Read | Binary},
		{"r+b", Read | Write | Binary},
		{"rb+", Read | Write | Binary},
		{"rt", Read},
		{"w", Write | Create | Trunc},
		{"w+", Read | Write | Create | Trunc},
		{"wb", Write | Create | Trunc | Binary},
		{"w+b", Read | Write | Create | Trunc | Binary},
		{"wx", Write | Create | Trunc | Excl},
		{"wxb", Write | Create | Trunc | Excl | Binary},
		{"w+x", Read | Write | Create | Trunc | Excl},
		{"xb+w", Read | Write | Create | Trunc | Excl | Binary},
		{"a", Write | Append | Create},
		{"a+", Read | Write | Append | Create},
		{"ab", Write | Append | Create | Binary},
		{"a+b", Read | Write | Append | Create | Binary},
		{"ax", Write | Append | Create | Excl},
		{"a+xb", Read | Write | Append | Create | Excl | Binary},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got, err := Parse(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		mode string
	}{
		{"empty string", ""},
		{"unknown verb", "q"},
		{"modifiers only", "+bx"},
		{"binary and text", "rbt"},
		{"binary and text write", "wtb"},
		{"exclusive without create", "rx"},
		{"exclusive read-write", "r+x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.mode)
			require.Error(t, err)

			var invalid *InvalidModeError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.mode, invalid.Mode)
			assert.Contains(t, err.Error(), "invalid I/O mode string")
		})
	}
}

// Rejected strings must be rejected identically on every call; parsing
// has no hidden state.
func TestParseDeterministic(t *testing.T) {
	first, firstErr := Parse("r+x")
	for i := 0; i < 100; i++ {
		got, err := Parse("r+x")
		assert.Equal(t, first, got)
		assert.Equal(t, firstErr, err)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	canonical := []string{
		"r", "r+", "rb", "r+b",
		"w", "w+", "wb", "w+b", "wx", "w+x", "wxb", "w+xb",
		"a", "a+", "ab", "a+b", "ax", "a+x", "axb", "a+xb",
	}

	for _, mode := range canonical {
		t.Run(mode, func(t *testing.T) {
			m, err := Parse(mode)
			require.NoError(t, err)
			assert.Equal(t, mode, m.String())
		})
	}
}

// Non-canonical spellings normalize: render(parse(s)) parses back to
// the same flags even when it does not reproduce s.
func TestRenderParseNormalizes(t *testing.T) {
	spellings := []string{"rb+", "br", "+w", "bx+a", "ar", "rwa", "tw"}

	for _, mode := range spellings {
		t.Run(mode, func(t *testing.T) {
			m, err := Parse(mode)
			require.NoError(t, err)

			again, err := Parse(m.String())
			require.NoError(t, err)
			assert.Equal(t, m, again)
		})
	}
}

func TestPredicates(t *testing.T) {
	m, err := Parse("a+xb")
	require.NoError(t, err)

	assert.True(t, m.CanRead())
	assert.True(t, m.CanWrite())
	assert.True(t, m.IsAppend())
	assert.True(t, m.IsCreate())
	assert.True(t, m.IsExclusive())
	assert.False(t, m.IsTrunc())
	assert.True(t, m.IsBinary())
	assert.False(t, m.IsText())

	m, err = Parse("r")
	require.NoError(t, err)

	assert.True(t, m.CanRead())
	assert.False(t, m.CanWrite())
	assert.False(t, m.IsAppend())
	assert.False(t, m.IsCreate())
	assert.False(t, m.IsExclusive())
	assert.False(t, m.IsTrunc())
	assert.False(t, m.IsBinary())
	assert.True(t, m.IsText())
}

func TestValid(t *testing.T) {
	valid := []string{"r", "r+", "w", "w+", "a", "a+", "wxb", "a+xb"}
	for _, mode := range valid {
		m, err := Parse(mode)
		require.NoError(t, err)
		assert.True(t, m.Valid(), mode)
	}

	invalid := []Mode{
		0,
		Write,       // write-only without a creating verb
		Read | Excl, // exclusive without create
		Read | Write | Excl,
		Append | Create, // append without write
		Write | Create | Trunc | Append,
		Read | Create,
	}
	for _, m := range invalid {
		assert.False(t, m.Valid(), "%016b", uint16(m))
	}
}

func TestFlagsRoundTrip(t *testing.T) {
	modes := []string{"r", "r+", "rb", "w", "w+", "wx", "a", "a+", "ab", "a+xb"}

	for _, mode := range modes {
		t.Run(mode, func(t *testing.T) {
			m, err := Parse(mode)
			require.NoError(t, err)

			back, err := FromFlags(m.Flags(), m.IsBinary())
			require.NoError(t, err)
			assert.Equal(t, m, back)
		})
	}
}

func TestFlags(t *testing.T) {
	m, err := Parse("w+x")
	require.NoError(t, err)
	assert.Equal(t, os.O_RDWR|os.O_CREATE|os.O_EXCL|os.O_TRUNC, m.Flags())

	m, err = Parse("r")
	require.NoError(t, err)
	assert.Equal(t, os.O_RDONLY, m.Flags())
}

func TestFromFlagsErrors(t *testing.T) {
	_, err := FromFlags(os.O_WRONLY, false)
	assert.Error(t, err)

	_, err = FromFlags(os.O_RDWR|os.O_EXCL, false)
	assert.Error(t, err)
}
