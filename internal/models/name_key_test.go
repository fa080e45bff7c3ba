package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientBeforeSaveDerivesNameKey(t *testing.T) {
	c := &Client{Name: "  Epicerie  Amal "}
	require.NoError(t, c.BeforeSave(nil))
	assert.Equal(t, "epicerie amal", c.NameKey)
}

func TestProductBeforeSaveDerivesNameKey(t *testing.T) {
	p := &Product{Name: "Coca  Cola  1L"}
	require.NoError(t, p.BeforeSave(nil))
	assert.Equal(t, "coca cola 1l", p.NameKey)
}

func TestBeforeSaveRecomputesNameKeyOnRename(t *testing.T) {
	c := &Client{Name: "Nouveau   Nom", NameKey: "ancien nom"}
	require.NoError(t, c.BeforeSave(nil))
	assert.Equal(t, "nouveau nom", c.NameKey)
}
