package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOption_GetString(t *testing.T) {
	opts := Option{
		"speaker.language": "zh",
		"speaker.retry":    3,
	}

	v, err := opts.GetString("speaker.language")
	require.NoError(t, err)
	assert.Equal(t, "zh", v)

	v, err = opts.GetString("speaker.retry")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	_, err = opts.GetString("missing")
	assert.Error(t, err)
}

func TestOption_With(t *testing.T) {
	base := Option{"speaker.language": "zh"}
	next := base.With("speaker.language", "en")

	assert.Equal(t, "zh", base["speaker.language"])
	assert.Equal(t, "en", next["speaker.language"])

	var empty Option
	assert.Equal(t, Option{"k": 1}, empty.With("k", 1))
}

func TestOption_Decode(t *testing.T) {
	var out struct {
		Language string `option:"speaker.language"`
		Retry    int    `option:"speaker.retry"`
	}
	err := Option{"speaker.language": "en", "speaker.retry": "2"}.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, "en", out.Language)
	assert.Equal(t, 2, out.Retry)
}
