package assistant

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const defaultImageMIME = "image/png"

// ErrInvalidImage: o anexo não é um data URI nem base64 válido.
var ErrInvalidImage = errors.New("assistant: invalid inline image")

// ParseInlineImage aceita "data:<mime>;base64,<payload>" ou só o payload em base64
// (nesse caso o tipo assumido é image/png).
func ParseInlineImage(s string) (Media, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Media{}, fmt.Errorf("%w: empty", ErrInvalidImage)
	}

	mime := defaultImageMIME
	payload := s
	if header, data, ok := strings.Cut(s, ","); ok {
		payload = data
		if t, found := strings.CutPrefix(header, "data:"); found {
			t, _, _ = strings.Cut(t, ";")
			if t != "" {
				mime = t
			}
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Media{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return Media{MIMEType: mime, Data: data}, nil
}

// DataURI monta o data URI de m.
func (m Media) DataURI() string {
	mime := m.MIMEType
	if mime == "" {
		mime = defaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(m.Data)
}
