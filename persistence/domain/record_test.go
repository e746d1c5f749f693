package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

func itemsRecord() Record[[]item] {
	return Record[[]item]{
		Key:     "items",
		Tier:    TierSync,
		Version: 2,
		Default: func() []item { return []item{} },
	}
}

func TestRecord_EncodeDecodeRoundTrip(t *testing.T) {
	rec := itemsRecord()
	in := []item{{Title: "buffet", Done: true}, {Title: "vestido"}}

	raw, err := rec.Encode(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2,"data":[{"title":"buffet","done":true},{"title":"vestido","done":false}]}`, string(raw))

	out, err := rec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRecord_DecodeRejectsNewerVersion(t *testing.T) {
	_, err := itemsRecord().Decode([]byte(`{"v":3,"data":[]}`))
	assert.ErrorIs(t, err, ErrUnknownVersion)
}

func TestRecord_DecodeRejectsMalformed(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":    `{{`,
		"no envelope": `[{"title":"x"}]`,
		"wrong shape": `{"v":1,"data":{"title":"x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := itemsRecord().Decode([]byte(raw))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestRecord_MigratesOlderVersions(t *testing.T) {
	rec := itemsRecord()
	rec.Migrate = func(from int, data json.RawMessage) (json.RawMessage, error) {
		// v1 gravava só os títulos
		var titles []string
		if err := json.Unmarshal(data, &titles); err != nil {
			return nil, err
		}
		out := make([]item, 0, len(titles))
		for _, title := range titles {
			out = append(out, item{Title: title})
		}
		return json.Marshal(out)
	}

	got, err := rec.Decode([]byte(`{"v":1,"data":["som","flores"]}`))
	require.NoError(t, err)
	assert.Equal(t, []item{{Title: "som"}, {Title: "flores"}}, got)
}

func TestRecord_DefaultValue(t *testing.T) {
	assert.Equal(t, []item{}, itemsRecord().DefaultValue())

	var bare Record[int]
	assert.Equal(t, 0, bare.DefaultValue())
	assert.Equal(t, "unknown", Tier(0).String())
	assert.Equal(t, "async", TierAsync.String())
}
