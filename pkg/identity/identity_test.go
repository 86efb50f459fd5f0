package identity

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashUIDDeterministic(t *testing.T) {
	first := HashUID("firebase-subject-123")
	second := HashUID("firebase-subject-123")

	assert.Equal(t, first, second)
}

func TestHashUIDFormat(t *testing.T) {
	hash := HashUID("some-subject")

	assert.Len(t, hash, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), hash)
}

func TestHashUIDDistinctInputs(t *testing.T) {
	a := HashUID("subject-a")
	b := HashUID("subject-b")

	assert.NotEqual(t, a, b)
}

func TestHashUIDAvalanche(t *testing.T) {
	a := HashUID("subject-1")
	b := HashUID("subject-2")

	// A one character input change should flip a large share of the output.
	diff := 0
	for i := range a {
		if a[i] != b[i] {
			diff++
		}
	}
	assert.Greater(t, diff, 32)
}
