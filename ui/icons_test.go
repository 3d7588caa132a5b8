package ui

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/markotdel/adguardvpn-gui/common"
)

func TestIcons_ValidPNG(t *testing.T) {
	for _, tt := range []struct {
		name string
		data []byte
	}{
		{"connected", ConnectedIcon()},
		{"disconnected", DisconnectedIcon()},
	} {
		t.Run(tt.name, func(t *testing.T) {
			img, err := png.Decode(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("icon is not a valid PNG: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != common.TrayIconSize || b.Dy() != common.TrayIconSize {
				t.Errorf("icon size = %dx%d, want %dx%d",
					b.Dx(), b.Dy(), common.TrayIconSize, common.TrayIconSize)
			}
		})
	}
}

func TestIcons_StatesDiffer(t *testing.T) {
	if bytes.Equal(ConnectedIcon(), DisconnectedIcon()) {
		t.Error("connected and disconnected icons must differ")
	}
}

func TestIcons_ConnectedHasCheckMark(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(ConnectedIcon()))
	if err != nil {
		t.Fatal(err)
	}

	white := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a > 0 && r > 0xf000 && g > 0xf000 && bl > 0xf000 {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("connected icon should contain the white check mark")
	}
}
