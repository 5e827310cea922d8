// Package bmpwriter encodes raw RGB pixel buffers as uncompressed 24-bit
// Windows BMP files, the format the visual differ renders slices to.
package bmpwriter

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const headerSize = 54

// Image is a width x height RGB pixel buffer, row-major, top-to-bottom,
// three bytes per pixel in R, G, B order.
type Image struct {
	Width, Height int
	Pixels        []byte // len == Width*Height*3
}

// NewImage allocates a black image of the given size.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pixels: make([]byte, width*height*3)}
}

// Set writes one pixel's RGB value. Out-of-bounds coordinates are
// ignored, matching the original rasterizer's clamp-by-ignoring
// convention.
func (img *Image) Set(x, y int, r, g, b byte) {
	if x < 0 || x >= img.Width || y < 0 || y >= img.Height {
		return
	}
	i := (y*img.Width + x) * 3
	img.Pixels[i+0] = r
	img.Pixels[i+1] = g
	img.Pixels[i+2] = b
}

// At returns the RGB value at (x, y).
func (img *Image) At(x, y int) (r, g, b byte) {
	i := (y*img.Width + x) * 3
	return img.Pixels[i+0], img.Pixels[i+1], img.Pixels[i+2]
}

// rowSize is the BMP row stride: each row is padded to a 4-byte
// boundary.
func rowSize(width int) int {
	return ((width*3 + 3) / 4) * 4
}

// WriteFile writes img to filename as a 24-bit uncompressed BMP.
func WriteFile(filename string, img *Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %q: %w", filename, err)
	}
	defer f.Close()
	if err := Write(f, img); err != nil {
		return fmt.Errorf("writing %q: %w", filename, err)
	}
	return nil
}

// Write encodes img as a 24-bit uncompressed BMP to w: a 54-byte
// BITMAPFILEHEADER+BITMAPINFOHEADER pair followed by bottom-up,
// 4-byte-padded, BGR-ordered pixel rows.
func Write(w io.Writer, img *Image) error {
	stride := rowSize(img.Width)
	dataSize := stride * img.Height
	fileSize := headerSize + dataSize

	var header [headerSize]byte
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:6], uint32(fileSize))
	header[10] = headerSize
	header[14] = 40 // BITMAPINFOHEADER size
	binary.LittleEndian.PutUint32(header[18:22], uint32(img.Width))
	binary.LittleEndian.PutUint32(header[22:26], uint32(img.Height))
	header[26] = 1  // planes
	header[28] = 24 // bits per pixel

	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	row := make([]byte, stride)
	for y := img.Height - 1; y >= 0; y-- {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < img.Width; x++ {
			r, g, b := img.At(x, y)
			row[x*3+0] = b
			row[x*3+1] = g
			row[x*3+2] = r
		}
		if _, err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
