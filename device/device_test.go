package device

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColorForm(t *testing.T) {
	r := httptest.NewRequest("GET", "/lamp?hue=180&saturation=50&brightness=100&kelvin=3000&transition=2s", nil)

	color, transition, err := parseColorForm(r)
	require.NoError(t, err)

	assert.Equal(t, uint16(32767), color.Hue)        // 180/360 of the uint16 range
	assert.Equal(t, uint16(32767), color.Saturation) // 50/100
	assert.Equal(t, uint16(65535), color.Brightness)
	assert.Equal(t, uint16(3000), color.Kelvin)
	assert.Equal(t, 2*time.Second, transition)
}

func TestParseColorForm_BrightnessRequired(t *testing.T) {
	r := httptest.NewRequest("GET", "/lamp?hue=180", nil)

	_, _, err := parseColorForm(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "brightness")
}

func TestParseColorForm_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/lamp?brightness=0", nil)

	color, transition, err := parseColorForm(r)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), color.Brightness)
	assert.Equal(t, uint16(0), color.Hue)
	assert.Equal(t, uint16(0), color.Kelvin)
	assert.Equal(t, defaultPowerTransition, transition)
}

func TestParseColorForm_Clamping(t *testing.T) {
	r := httptest.NewRequest("GET", "/lamp?brightness=150&kelvin=12000", nil)

	color, _, err := parseColorForm(r)
	require.NoError(t, err)

	assert.Equal(t, uint16(65535), color.Brightness)
	assert.Equal(t, uint16(9000), color.Kelvin)
}

func TestParseColorForm_BareTransitionIsMilliseconds(t *testing.T) {
	r := httptest.NewRequest("GET", "/lamp?brightness=50&transition=500", nil)

	_, transition, err := parseColorForm(r)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, transition)
}

func TestParseColorForm_BadValues(t *testing.T) {
	for _, query := range []string{
		"brightness=dim",
		"brightness=50&hue=red",
		"brightness=50&kelvin=warm",
		"brightness=50&transition=soon",
	} {
		r := httptest.NewRequest("GET", "/lamp?"+query, nil)
		_, _, err := parseColorForm(r)
		assert.Error(t, err, query)
	}
}

func TestParseShellyConfig(t *testing.T) {
	cfg, err := parseShellyConfig(map[string]interface{}{"index": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Index)

	cfg, err = parseShellyConfig(map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Index)

	_, err = parseShellyConfig(map[string]interface{}{"index": "two"})
	assert.Error(t, err)
}
