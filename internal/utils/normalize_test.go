package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "epicerie amal", NormalizeName("  Epicerie   AMAL "))
	assert.Equal(t, "coca 1l", NormalizeName("Coca\t1L"))
	assert.Equal(t, "", NormalizeName("   "))
	assert.Equal(t, "café du coin", NormalizeName("Café  du  Coin"))
}
