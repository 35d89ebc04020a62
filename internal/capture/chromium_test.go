package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureRequiresURLAndPath(t *testing.T) {
	err := CapturePickerPNG(context.Background(), Options{OutputPath: "x.png"})
	assert.ErrorContains(t, err, "URL is required")

	err = CapturePickerPNG(context.Background(), Options{URL: "http://127.0.0.1/"})
	assert.ErrorContains(t, err, "OutputPath is required")
}

func TestNormalizeDefaults(t *testing.T) {
	o := Options{URL: "http://127.0.0.1/", OutputPath: "out.png", Scale: 2}
	require.NoError(t, o.normalize())
	assert.Equal(t, 750, o.Width)
	assert.Equal(t, 960, o.Height)
	assert.Equal(t, 30*time.Second, o.Timeout)

	o = Options{URL: "u", OutputPath: "p", Width: 100, Height: 50}
	require.NoError(t, o.normalize())
	assert.Equal(t, 100, o.Width)
	assert.Equal(t, 50, o.Height)
	assert.Equal(t, 1.0, o.Scale)
}
