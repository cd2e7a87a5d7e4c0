package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingKeyForIsUnambiguous(t *testing.T) {
	assert.NotEqual(t, *PendingKeyFor("a:b", "c"), *PendingKeyFor("a", "b:c"))
	assert.NotEqual(t, *PendingKeyFor("ab", "c"), *PendingKeyFor("a", "bc"))
	assert.NotEqual(t, *PendingKeyFor("a", "b"), *PendingKeyFor("b", "a"))
	assert.Equal(t, "3:a:bc", *PendingKeyFor("a:b", "c"))
}

func TestCanonicalPairUsesByteOrder(t *testing.T) {
	u1, u2 := CanonicalPair("a1", "B1")
	assert.Equal(t, "B1", u1)
	assert.Equal(t, "a1", u2)

	f := NewFriendship("zoe", "adam")
	assert.Equal(t, "adam", f.User1ID)
	assert.Equal(t, "zoe", f.Other("adam"))
}
