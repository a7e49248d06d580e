package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	for range 50 {
		code := NewCode(now)
		require.Len(t, code, 12)
		assert.Equal(t, "20250314", code[:8])
		for _, c := range code[8:] {
			assert.True(t, c >= '0' && c <= '9', "suffix digit in %q", code)
		}
	}
}
