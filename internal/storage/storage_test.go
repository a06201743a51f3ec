package storage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DCWS-dev/ai-landing/internal/storage"
)

func TestNormalizeHandle(t *testing.T) {
	assert.Equal(t, "ivan", storage.NormalizeHandle("@Ivan"))
	assert.Equal(t, "ivan", storage.NormalizeHandle("ivan"))
	assert.Equal(t, "iv@n", storage.NormalizeHandle("iv@n"))
	assert.Equal(t, "", storage.NormalizeHandle("@"))
	assert.Equal(t, "", storage.NormalizeHandle(""))
}

func TestNowISOIsFixedWidthUTC(t *testing.T) {
	stamp := storage.NowISO()

	assert.Len(t, stamp, len("2006-01-02T15:04:05.000Z"))
	assert.Equal(t, byte('Z'), stamp[len(stamp)-1])

	parsed, err := time.Parse("2006-01-02T15:04:05.000Z", stamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}
