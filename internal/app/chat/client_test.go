package chat

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLoggerTagsComponentOnce(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	client := NewClient(nil, nil, nil, "")
	client.logger.Info().Msg("hello")

	line := buf.Bytes()
	assert.Equal(t, 1, bytes.Count(line, []byte(`"component"`)))

	var fields map[string]any
	require.NoError(t, json.Unmarshal(line, &fields))
	assert.Equal(t, "client", fields["component"])
	assert.Equal(t, client.ID(), fields["conn_id"])
}

func TestTargetKindLabels(t *testing.T) {
	assert.Equal(t, "global", Message{}.Target().String())
	assert.Equal(t, "room", Message{Room: "tech"}.Target().String())
	assert.Equal(t, "private", Message{IsPrivate: true, To: "b"}.Target().String())
}
