package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorKnownCode(t *testing.T) {
	err := NewError(ErrRateLimitExceeded)

	require.NotNil(t, err)
	assert.Equal(t, ErrRateLimitExceeded, err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
}

func TestNewErrorDefaultsStatusToOK(t *testing.T) {
	err := NewError(ErrNotJoined)

	assert.Equal(t, http.StatusOK, err.Status)
}

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrInvalidRoomName, 64)

	assert.Equal(t, "Room name must be at most 64 characters.", err.Message)
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(424242)

	assert.Equal(t, ErrUnknown, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("routing: %w", NewError(ErrUnknownRecipient))

	assert.True(t, errors.Is(wrapped, NewError(ErrUnknownRecipient)))
	assert.False(t, errors.Is(wrapped, NewError(ErrNotJoined)))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, 0, CodeOf(nil))
	assert.Equal(t, ErrUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, ErrDuplicateConnection, CodeOf(NewError(ErrDuplicateConnection)))
	assert.True(t, HasCode(NewError(ErrNotInRoom), ErrNotInRoom))
	assert.False(t, HasCode(nil, ErrNotInRoom))
}
