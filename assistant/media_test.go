package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInlineImage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mime string
	}{
		{"data uri", "data:image/webp;base64,aGVsbG8=", "image/webp"},
		{"bare base64", "aGVsbG8=", "image/png"},
		{"header without mime", "data:;base64,aGVsbG8=", "image/png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseInlineImage(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.mime, m.MIMEType)
			assert.Equal(t, []byte("hello"), m.Data)
		})
	}

	_, err := ParseInlineImage("")
	assert.ErrorIs(t, err, ErrInvalidImage)
	_, err = ParseInlineImage("data:image/png;base64,@@")
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestMediaDataURIRoundTrip(t *testing.T) {
	m := Media{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}
	back, err := ParseInlineImage(m.DataURI())
	require.NoError(t, err)
	assert.Equal(t, m, back)

	assert.Equal(t, "data:image/png;base64,AQ==", Media{Data: []byte{1}}.DataURI())
}
