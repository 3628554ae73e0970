package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapfKeepsKind(t *testing.T) {
	err := Wrapf(ErrUnsupportedType, "field %q of %s", "owner", "Pet")

	assert.Equal(t, `field "owner" of Pet: unsupported field type`, err.Error())
	assert.True(t, Is(err, ErrUnsupportedType))
	assert.False(t, Is(err, ErrUnsupportedShape))
}

func TestWithHint(t *testing.T) {
	err := WithHint(Wrap(ErrUnresolvedExport, "Ghost"), "declare a struct or enum named Ghost")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "declare a struct or enum named Ghost", hints[0])
	assert.True(t, Is(err, ErrUnresolvedExport))
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"foreign", New("boom"), nil},
		{"parse", Wrap(ErrParse, "line 3"), ErrParse},
		{"double wrapped", Wrap(Wrap(ErrMalformedExportPath, "impl"), "file.rs"), ErrMalformedExportPath},
		{"with hint", WithHint(Wrap(ErrDrift, "Out.elm"), "rerun generate"), ErrDrift},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
