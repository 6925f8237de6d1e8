package mapcss

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	type args struct {
		raw string
	}
	tests := []struct {
		name    string
		args    args
		want    Color
		wantErr bool
	}{
		{"6 digits", args{"#ff8000"}, Color{0xff, 0x80, 0x00}, false},
		{"3 digits expand", args{"#fa0"}, Color{0xff, 0xaa, 0x00}, false},
		{"missing hash", args{"ff8000"}, Color{}, true},
		{"bad digit count", args{"#ff80"}, Color{}, true},
		{"non-hex digits", args{"#gggggg"}, Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHexColor(tt.args.raw)
			if tt.wantErr {
				require.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromColorName(t *testing.T) {
	c, ok := FromColorName("cadetblue")
	require.True(t, ok)
	assert.Equal(t, Color{0x5f, 0x9e, 0xa0}, c)

	_, ok = FromColorName("not-a-color")
	assert.False(t, ok)
}

func TestColor_String(t *testing.T) {
	assert.Equal(t, "#5f9ea0", Color{0x5f, 0x9e, 0xa0}.String())
}

func TestColor_ToRGBA(t *testing.T) {
	assert.Equal(t, color.RGBA{0xff, 0x00, 0x00, 0xff}, Color{0xff, 0, 0}.ToRGBA())
}
