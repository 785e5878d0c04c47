package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrift(t *testing.T) {
	cached := map[string]int{"a": 10, "b": 5, "c": 0}
	computed := map[string]int{"a": 10, "b": 7}

	got := Drift(cached, computed)

	assert.Len(t, got, 1)
	assert.Equal(t, Correction{ProductID: "b", Cached: 5, Computed: 7}, got[0])
	assert.Equal(t, 2, got[0].Delta())
}

func TestDrift_ProductoSinMovimientos(t *testing.T) {
	got := Drift(map[string]int{"x": 3}, map[string]int{})

	assert.Equal(t, []Correction{{ProductID: "x", Cached: 3, Computed: 0}}, got)
	assert.Equal(t, -3, got[0].Delta())
}

func TestDrift_SinDiferencias(t *testing.T) {
	assert.Empty(t, Drift(map[string]int{"a": 1}, map[string]int{"a": 1}))
}
