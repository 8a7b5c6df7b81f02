package spot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSpots = `
spot "dry-river" {
  street     = "river"
  board      = "2s3h4d5c8s"
  oop_range  = "AA,KK"
  ip_range   = "QQ,JJ"
  pot        = 10
  stack      = 20
  iterations = 2000
}

spot "ks-turn" {
  street      = "turn"
  board       = "Ks9d4c2h"
  oop_range   = "AA"
  ip_range    = "72o"
  pot         = 10
  stack       = 20
  iterations  = 300
  bet_sizes   = [0.75]
  raise_sizes = [0.5, 1.0]
  max_raises  = 1
  add_allin   = false
}
`

func TestParseSpots(t *testing.T) {
	f, err := Parse("spots.hcl", []byte(sampleSpots))
	require.NoError(t, err)
	require.Len(t, f.Spots, 2)

	s, err := f.Find("dry-river")
	require.NoError(t, err)
	assert.Equal(t, "river", s.Street)
	assert.Equal(t, "2s3h4d5c8s", s.Board)
	assert.Equal(t, 2000, s.Iterations)
}

func TestFindRequiresNameWithMultipleSpots(t *testing.T) {
	f, err := Parse("spots.hcl", []byte(sampleSpots))
	require.NoError(t, err)

	_, err = f.Find("")
	assert.Error(t, err)

	_, err = f.Find("missing")
	assert.Error(t, err)
}

func TestConfigAppliesStreetDefaults(t *testing.T) {
	f, err := Parse("spots.hcl", []byte(sampleSpots))
	require.NoError(t, err)

	s, err := f.Find("dry-river")
	require.NoError(t, err)
	cfg := s.Config()
	assert.Equal(t, []float64{0.33, 0.67, 1.0}, cfg.BetSizes)
	assert.Equal(t, []float64{1.0}, cfg.RaiseSizes)
	assert.Equal(t, 3, cfg.MaxRaises)
	assert.True(t, cfg.AddAllIn)
}

func TestConfigHonorsOverrides(t *testing.T) {
	f, err := Parse("spots.hcl", []byte(sampleSpots))
	require.NoError(t, err)

	s, err := f.Find("ks-turn")
	require.NoError(t, err)
	cfg := s.Config()
	assert.Equal(t, []float64{0.75}, cfg.BetSizes)
	assert.Equal(t, []float64{0.5, 1.0}, cfg.RaiseSizes)
	assert.Equal(t, 1, cfg.MaxRaises)
	assert.False(t, cfg.AddAllIn)
}

func TestParseRejectsUnknownStreet(t *testing.T) {
	_, err := Parse("spots.hcl", []byte(`
spot "bad" {
  street     = "preflop"
  board      = ""
  oop_range  = "AA"
  ip_range   = "KK"
  pot        = 10
  stack      = 20
  iterations = 10
}
`))
	assert.Error(t, err)
}

func TestParseRejectsBadHCL(t *testing.T) {
	_, err := Parse("spots.hcl", []byte(`spot "x" {`))
	assert.Error(t, err)
}
