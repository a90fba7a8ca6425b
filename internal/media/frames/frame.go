package frames

import (
	"image"
	"image/png"
	"os"
)

// Frame is one decoded, preprocessed video frame in packed RGB24 layout.
type Frame struct {
	Index  int
	Width  int
	Height int
	Pix    []byte
}

// Image wraps the raw pixels in an image.RGBA without further conversion
// cost beyond the alpha channel fill.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < f.Width*f.Height; i++ {
		img.Pix[i*4+0] = f.Pix[i*3+0]
		img.Pix[i*4+1] = f.Pix[i*3+1]
		img.Pix[i*4+2] = f.Pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// WritePNG encodes the frame to a PNG file at the given path.
func (f *Frame) WritePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, f.Image())
}
