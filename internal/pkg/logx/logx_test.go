package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.42:5555": "203.0.113.0",
		"127.0.0.1:80":      "127.0.0.1",
		"not-an-ip":         "unknown_ip",
		"[2001:db8::1]:443": "2001:db8::",
		"198.51.100.7":      "198.51.100.0",
	}

	for in, want := range cases {
		assert.Equal(t, want, anonymizeIP(in), in)
	}
}

func TestCheckFieldsDropsOddPairs(t *testing.T) {
	assert.Nil(t, checkFields("Info", []any{"only-key"}))
	assert.Len(t, checkFields("Info", []any{"k", "v"}), 2)
}

func TestResolveLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, resolveLevel(true, ""))
	assert.Equal(t, zerolog.InfoLevel, resolveLevel(false, ""))
	assert.Equal(t, zerolog.WarnLevel, resolveLevel(true, "warn"))
	assert.Equal(t, zerolog.InfoLevel, resolveLevel(false, "loud"))
}

func TestCompletionEventLevel(t *testing.T) {
	logger := zerolog.Nop()

	// disabled levels yield nil events
	assert.Nil(t, completionEvent(&logger, "/api/users", 200))

	logger = zerolog.New(nil).Level(zerolog.InfoLevel)
	assert.Nil(t, completionEvent(&logger, "/health", 200), "quiet paths log at debug")
	assert.NotNil(t, completionEvent(&logger, "/health", 503))
	assert.NotNil(t, completionEvent(&logger, "/api/users", 200))
}
