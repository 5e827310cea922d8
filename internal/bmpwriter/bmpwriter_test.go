package bmpwriter

import (
	"bytes"
	"testing"
)

func TestWriteHeaderFields(t *testing.T) {
	img := NewImage(3, 2)
	img.Set(0, 0, 10, 20, 30)

	var buf bytes.Buffer
	if err := Write(&buf, img); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b := buf.Bytes()
	if len(b) < headerSize {
		t.Fatalf("output too short: %d bytes", len(b))
	}
	if b[0] != 'B' || b[1] != 'M' {
		t.Errorf("magic bytes = %q, want \"BM\"", b[0:2])
	}
	if b[10] != headerSize {
		t.Errorf("data offset = %d, want %d", b[10], headerSize)
	}
	if b[28] != 24 {
		t.Errorf("bits per pixel = %d, want 24", b[28])
	}

	stride := rowSize(3) // (3*3+3)/4*4 = 12
	wantSize := headerSize + stride*2
	if len(b) != wantSize {
		t.Errorf("file size = %d bytes, want %d", len(b), wantSize)
	}
}

func TestRowPaddingAndOrder(t *testing.T) {
	// width=1 -> row_size = (1*3+3)/4*4 = 4, i.e. one padding byte.
	img := NewImage(1, 1)
	img.Set(0, 0, 255, 128, 64)

	var buf bytes.Buffer
	if err := Write(&buf, img); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b := buf.Bytes()
	row := b[headerSize:]
	if len(row) != 4 {
		t.Fatalf("row length = %d, want 4 (3 pixel bytes + 1 padding)", len(row))
	}
	// BGR order.
	if row[0] != 64 || row[1] != 128 || row[2] != 255 {
		t.Errorf("row = %v, want BGR [64 128 255 ...]", row[:3])
	}
	if row[3] != 0 {
		t.Errorf("padding byte = %d, want 0", row[3])
	}
}

func TestBottomUpRowOrder(t *testing.T) {
	img := NewImage(1, 2)
	img.Set(0, 0, 1, 0, 0) // top row
	img.Set(0, 1, 2, 0, 0) // bottom row

	var buf bytes.Buffer
	if err := Write(&buf, img); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b := buf.Bytes()
	stride := rowSize(1)
	firstRow := b[headerSize : headerSize+stride]
	// BMP stores rows bottom-up, so the first row on disk is y=1.
	if firstRow[2] != 2 {
		t.Errorf("first stored row's R channel = %d, want 2 (bottom row first)", firstRow[2])
	}
}
