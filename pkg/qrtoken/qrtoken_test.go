package qrtoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := Payload{
		PassID:    7,
		Student:   "John Student",
		Date:      "2025-03-14",
		Timestamp: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC).Format(time.RFC3339),
	}

	decoded, err := Decode(Encode(payload))
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)
}

func TestDecodeAcceptsBarePassCode(t *testing.T) {
	code := PassCode(42, time.Now())

	decoded, err := Decode(code)
	require.NoError(t, err)
	assert.Equal(t, 42, decoded.PassID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, scanned := range []string{"", "   ", "not-a-token", "QR_PASS_x_123"} {
		_, err := Decode(scanned)
		assert.Error(t, err, "scanned=%q", scanned)
	}
}

func TestPassCodeIsPrefixedWithID(t *testing.T) {
	assert.Contains(t, PassCode(9, time.Unix(1700000000, 0)), "QR_PASS_9_")
}
