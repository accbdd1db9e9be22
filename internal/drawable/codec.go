/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package drawable

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"

	"github.com/google/uuid"

	"shotedit/internal/field"
	"shotedit/internal/vector"
)

// Element template layout (big endian):
//
//	"SHED" | version u16 | parent uuid [16] | count u32 | container...
//	container: kind u8 | length u32 | record...
//	record:    tag u8 | length u32 | payload
//
// Readers skip record tags they do not know.
const (
	templateMagic   = "SHED"
	templateVersion = 1
)

const (
	tagBounds uint8 = iota + 1
	tagField
	tagFilter
	tagText
	tagPoints
	tagImage
	tagNumber
	tagTarget
)

// ErrCorruptTemplate is returned for any malformed template stream.
var ErrCorruptTemplate = errors.New("corrupt element template")

// WriteTo encodes l to w and returns the number of bytes written.
func WriteTo(w io.Writer, l *List) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(templateMagic)
	putU16(&buf, templateVersion)
	id := l.ParentID()
	buf.Write(id[:])
	putU32(&buf, uint32(l.Len()))
	for _, c := range l.items {
		body, err := encodeContainer(c)
		if err != nil {
			return 0, err
		}
		buf.WriteByte(uint8(c.Kind()))
		putU32(&buf, uint32(len(body)))
		buf.Write(body)
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func encodeContainer(c Container) ([]byte, error) {
	var b bytes.Buffer
	r := c.Rect()
	record(&b, tagBounds, f64s(r.X, r.Y, r.W, r.H))
	for _, f := range c.FieldHolder().OwnFields() {
		p, err := fieldPayload(f.Type(), f.Value())
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", c.Kind(), err)
		}
		record(&b, tagField, p)
	}
	for i, flt := range c.Filters() {
		var p bytes.Buffer
		p.WriteByte(uint8(i))
		p.WriteByte(uint8(len(flt.Name())))
		p.WriteString(flt.Name())
		p.WriteByte(boolByte(flt.Invert()))
		for _, f := range flt.FieldHolder().OwnFields() {
			fp, err := fieldPayload(f.Type(), f.Value())
			if err != nil {
				return nil, fmt.Errorf("encode filter %s: %w", flt.Name(), err)
			}
			putU32(&p, uint32(len(fp)))
			p.Write(fp)
		}
		record(&b, tagFilter, p.Bytes())
	}
	switch v := c.(type) {
	case *Text:
		record(&b, tagText, []byte(v.text))
	case *SpeechBubble:
		record(&b, tagText, []byte(v.text))
		record(&b, tagTarget, f64s(v.target.X, v.target.Y))
	case *Freehand:
		pts := v.Points()
		var p bytes.Buffer
		putU32(&p, uint32(len(pts)))
		for _, q := range pts {
			p.Write(f64s(q.X, q.Y))
		}
		record(&b, tagPoints, p.Bytes())
	case *StepLabel:
		var p bytes.Buffer
		putU32(&p, uint32(int32(v.number)))
		record(&b, tagNumber, p.Bytes())
	case *Image:
		var p bytes.Buffer
		p.WriteByte(uint8(v.source))
		if v.img != nil {
			if err := png.Encode(&p, v.img); err != nil {
				return nil, fmt.Errorf("encode image: %w", err)
			}
		}
		record(&b, tagImage, p.Bytes())
	}
	return b.Bytes(), nil
}

func fieldPayload(t field.Type, v any) ([]byte, error) {
	s, err := field.EncodeValue(t, v)
	if err != nil {
		return nil, err
	}
	var p bytes.Buffer
	putU16(&p, uint16(t))
	p.WriteString(s)
	return p.Bytes(), nil
}

// ReadFrom decodes a template. Any error leaves nothing half restored: the
// result is either a complete list or nil.
func ReadFrom(r io.Reader) (*List, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	d := &decoder{buf: data}
	if string(d.bytes(4)) != templateMagic {
		return nil, corrupt("bad magic")
	}
	if v := d.u16(); d.err == nil && v != templateVersion {
		return nil, corrupt("unsupported version %d", v)
	}
	id, idErr := uuid.FromBytes(d.bytes(16))
	count := d.u32()
	if d.err != nil || idErr != nil {
		return nil, corrupt("truncated header")
	}
	l := NewListWithParent(id)
	for i := uint32(0); i < count; i++ {
		kind := Kind(d.u8())
		body := d.bytes(int(d.u32()))
		if d.err != nil {
			l.Dispose()
			return nil, corrupt("truncated container %d", i)
		}
		c, err := decodeContainer(kind, body)
		if err != nil {
			l.Dispose()
			return nil, fmt.Errorf("%w: container %d: %v", ErrCorruptTemplate, i, err)
		}
		l.Add(c)
	}
	if len(d.buf) != 0 {
		l.Dispose()
		return nil, corrupt("%d trailing bytes", len(d.buf))
	}
	return l, nil
}

func decodeContainer(kind Kind, body []byte) (Container, error) {
	c, err := New(kind, nil)
	if err != nil {
		return nil, err
	}
	d := &decoder{buf: body}
	for len(d.buf) > 0 {
		tag := d.u8()
		p := &decoder{buf: d.bytes(int(d.u32()))}
		if d.err != nil {
			return nil, d.err
		}
		if err := applyRecord(c, tag, p); err != nil {
			return nil, err
		}
		if p.err != nil {
			return nil, p.err
		}
	}
	c.SetStatus(StatusIdle)
	return c, nil
}

func applyRecord(c Container, tag uint8, p *decoder) error {
	switch tag {
	case tagBounds:
		r := vector.R(p.f64(), p.f64(), p.f64(), p.f64())
		if fh, ok := c.(*Freehand); ok {
			fh.rect = r
		} else {
			c.SetRect(r)
		}
	case tagField:
		return applyField(c.FieldHolder(), p)
	case tagFilter:
		idx := int(p.u8())
		name := string(p.bytes(int(p.u8())))
		p.u8() // invert is implied by the prepared filter
		filters := c.Filters()
		if p.err != nil || idx >= len(filters) || filters[idx].Name() != name {
			return fmt.Errorf("filter %q does not match the prepared filter", name)
		}
		for len(p.buf) > 0 && p.err == nil {
			fp := &decoder{buf: p.bytes(int(p.u32()))}
			if err := applyField(filters[idx].FieldHolder(), fp); err != nil {
				return err
			}
		}
	case tagText:
		switch v := c.(type) {
		case *Text:
			v.text = string(p.rest())
		case *SpeechBubble:
			v.text = string(p.rest())
		}
	case tagTarget:
		if sb, ok := c.(*SpeechBubble); ok {
			sb.target = vector.P(p.f64(), p.f64())
		}
	case tagPoints:
		n := int(p.u32())
		if n > len(p.buf)/16 {
			return errors.New("point count exceeds record")
		}
		pts := make([]vector.Pt, n)
		for i := range pts {
			pts[i] = vector.P(p.f64(), p.f64())
		}
		if fh, ok := c.(*Freehand); ok {
			fh.SetPoints(pts)
		}
	case tagNumber:
		if sl, ok := c.(*StepLabel); ok {
			sl.number = int(int32(p.u32()))
		}
	case tagImage:
		src := ImageSource(p.u8())
		if img, ok := c.(*Image); ok {
			img.source = src
			if rest := p.rest(); len(rest) > 0 {
				decoded, err := png.Decode(bytes.NewReader(rest))
				if err != nil {
					return fmt.Errorf("image: %w", err)
				}
				r := img.rect
				img.SetImage(decoded)
				img.rect = r
			}
		}
	}
	return nil
}

func applyField(h *field.Holder, p *decoder) error {
	t := field.Type(p.u16())
	s := string(p.rest())
	if p.err != nil {
		return p.err
	}
	if !t.Valid() {
		return fmt.Errorf("unknown field type %d", t)
	}
	v, err := field.DecodeValue(t, s)
	if err != nil {
		return err
	}
	h.SetValue(t, v)
	return nil
}

// Clone deep copies l through the template encoding. The copy keeps the
// parent id so pasting it back is recognized as same-session.
func (l *List) Clone() (*List, error) {
	var buf bytes.Buffer
	if _, err := WriteTo(&buf, l); err != nil {
		return nil, err
	}
	return ReadFrom(&buf)
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorruptTemplate, fmt.Sprintf(format, args...))
}

func record(b *bytes.Buffer, tag uint8, payload []byte) {
	b.WriteByte(tag)
	putU32(b, uint32(len(payload)))
	b.Write(payload)
}

func putU16(b *bytes.Buffer, v uint16) { b.Write(binary.BigEndian.AppendUint16(nil, v)) }
func putU32(b *bytes.Buffer, v uint32) { b.Write(binary.BigEndian.AppendUint32(nil, v)) }

func f64s(vs ...float64) []byte {
	out := make([]byte, 0, 8*len(vs))
	for _, v := range vs {
		out = binary.BigEndian.AppendUint64(out, math.Float64bits(v))
	}
	return out
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// decoder consumes a byte slice; the first short read sets err and every
// later read returns zero values.
type decoder struct {
	buf []byte
	err error
}

func (d *decoder) bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf) {
		d.err = io.ErrUnexpectedEOF
		d.buf = nil
		return nil
	}
	out := d.buf[:n]
	d.buf = d.buf[n:]
	return out
}

func (d *decoder) rest() []byte { return d.bytes(len(d.buf)) }

func (d *decoder) u8() uint8 {
	b := d.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) u16() uint16 {
	b := d.bytes(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u32() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (d *decoder) f64() float64 {
	b := d.bytes(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}
