/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 200, G: 40, B: 40, A: 255}}, image.Point{}, draw.Src)
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	return img
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"a.png": FormatPNG, "b.JPG": FormatJPEG, "c.jpeg": FormatJPEG,
		"d.bmp": FormatBMP, "e.tif": FormatTIFF, "f.tiff": FormatTIFF,
		"g.pdf": FormatPDF, "h.shot": FormatBundle,
	}
	for path, want := range cases {
		got, err := FormatFor(path)
		if err != nil || got != want {
			t.Fatalf("FormatFor(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFor("x.gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestWritePNG_RoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "shot.png")
	src := testImage(8, 6)
	if err := WritePNG(src, out); err != nil {
		t.Fatalf("write png: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("unexpected size %v", img.Bounds())
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r != 0 || g != 0 || b>>8 != 255 {
		t.Fatalf("pixel (1,1) not preserved")
	}
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"r.png", "r.bmp", "r.tiff"} {
		out := filepath.Join(dir, name)
		if err := Write(testImage(7, 3), out, Options{}); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		img, err := ReadImage(out)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if img.Bounds().Dx() != 7 || img.Bounds().Dy() != 3 {
			t.Fatalf("%s: unexpected size %v", name, img.Bounds())
		}
	}
	if _, err := ReadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWrite_RasterFormats(t *testing.T) {
	dir := t.TempDir()
	src := testImage(5, 4)
	for _, name := range []string{"s.png", "s.jpg", "s.bmp", "s.tiff"} {
		out := filepath.Join(dir, name)
		if err := Write(src, out, Options{}); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		fi, err := os.Stat(out)
		if err != nil || fi.Size() == 0 {
			t.Fatalf("%s missing or empty: %v", name, err)
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, src, FormatBMP, Options{}); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	if img, err := bmp.Decode(&buf); err != nil || img.Bounds().Dx() != 5 {
		t.Fatalf("bmp decode: %v", err)
	}
	buf.Reset()
	if err := Encode(&buf, src, FormatTIFF, Options{}); err != nil {
		t.Fatalf("encode tiff: %v", err)
	}
	if img, err := tiff.Decode(bytes.NewReader(buf.Bytes())); err != nil || img.Bounds().Dy() != 4 {
		t.Fatalf("tiff decode: %v", err)
	}
}

func TestWrite_Rejects(t *testing.T) {
	dir := t.TempDir()
	if err := Write(testImage(2, 2), filepath.Join(dir, "x.gif"), Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("gif: expected ErrUnknownFormat, got %v", err)
	}
	if err := Write(testImage(2, 2), filepath.Join(dir, "x.shot"), Options{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("bundle via Write: expected ErrUnknownFormat, got %v", err)
	}
	if err := Encode(&bytes.Buffer{}, testImage(2, 2), FormatPDF, Options{}); err == nil {
		t.Fatalf("pdf is not a raster format")
	}
}

func TestWritePDF_CreatesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "shot.pdf")
	if err := WritePDF(testImage(120, 80), out, PDFOptions{Title: "Capture"}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestWritePDF_EmptyImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.pdf")
	if err := WritePDF(image.NewRGBA(image.Rectangle{}), out, PDFOptions{}); err == nil {
		t.Fatalf("expected error for empty image")
	}
}
