package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicPool(t *testing.T) {
	var buf bytes.Buffer
	pool := RunPeriodicPool(zerolog.New(&buf), time.Hour)

	bar := NewBar(4, "Converting", io.Discard)
	pool.Add(bar)
	require.NoError(t, bar.Add(2))
	pool.Stop()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"message":"Progress"`)
	assert.Contains(t, lines[0], `"percent":`)
}
