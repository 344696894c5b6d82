// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/animes/pkg/uuid"
)

func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	// Version nibble of a v7 UUID.
	assert.Equal(t, byte('7'), first[14])
	// Time ordered at millisecond precision.
	assert.LessOrEqual(t, first[:13], second[:13])
}

func TestIsValid(t *testing.T) {
	assert.False(t, uuid.IsValid("not-a-uuid"))
	assert.False(t, uuid.IsValid(""))
}
