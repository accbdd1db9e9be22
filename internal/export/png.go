/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export writes flattened surfaces to image and document files and
// reads and writes editable session bundles.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output file type.
type Format string

const (
	FormatPNG    Format = "png"
	FormatJPEG   Format = "jpeg"
	FormatBMP    Format = "bmp"
	FormatTIFF   Format = "tiff"
	FormatPDF    Format = "pdf"
	FormatBundle Format = "shot"
)

// ErrUnknownFormat is returned for file extensions without an encoder.
var ErrUnknownFormat = errors.New("unknown output format")

// FormatFor picks the format from the file extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "pdf":
		return FormatPDF, nil
	case "shot":
		return FormatBundle, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Options controls Write. Zero values pick sensible defaults.
type Options struct {
	// JPEGQuality is 1..100; 0 means 90.
	JPEGQuality int
	PDF         PDFOptions
}

// Write encodes img into path using the format implied by the extension.
// Bundles need the element template and are written with WriteBundle.
func Write(img image.Image, path string, opt Options) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	switch f {
	case FormatPDF:
		return WritePDF(img, path, opt.PDF)
	case FormatBundle:
		return fmt.Errorf("%w: bundles need elements, use WriteBundle", ErrUnknownFormat)
	}
	return writeFile(path, func(w io.Writer) error { return Encode(w, img, f, opt) })
}

// Encode writes img to w in one of the raster formats.
func Encode(w io.Writer, img image.Image, f Format, opt Options) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		q := opt.JPEGQuality
		if q <= 0 || q > 100 {
			q = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("%w: %s is not a raster format", ErrUnknownFormat, f)
}

// ReadImage decodes an image file in any of the supported raster formats.
func ReadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// WritePNG writes img as a PNG file, creating parent directories.
func WritePNG(img image.Image, path string) error {
	return writeFile(path, func(w io.Writer) error { return png.Encode(w, img) })
}

func writeFile(path string, enc func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := enc(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
