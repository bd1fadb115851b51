package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentHashIsStableForTheSameIdentity(t *testing.T) {
	pushed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	first := ContentHash("https://github.com/acme/widget", pushed)
	second := ContentHash("https://github.com/acme/widget", pushed)
	assert.Equal(t, first, second)

	// URL normalization: case and a trailing slash must not change identity.
	assert.Equal(t, first, ContentHash("https://github.com/ACME/Widget/", pushed))
}

func TestContentHashChangesWithPushMarker(t *testing.T) {
	pushed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	first := ContentHash("https://github.com/acme/widget", pushed)
	second := ContentHash("https://github.com/acme/widget", pushed.Add(time.Hour))
	assert.NotEqual(t, first, second)
}

func TestContentHashIsTimezoneInsensitive(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	utc := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t,
		ContentHash("https://github.com/acme/widget", utc),
		ContentHash("https://github.com/acme/widget", utc.In(loc)),
	)
}
