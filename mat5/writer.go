/*
 * writer.go, part of seismat.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mat5

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"
	"gonum.org/v1/gonum/mat"
)

// Var is a named value to be written to a MAT file.
type Var struct {
	Name  string
	Value any
}

// Writer writes variables to a Level 5 MAT file. Everything is
// written little endian.
type Writer struct {
	w        *bufio.Writer
	f        io.Closer //only set if the writer opened the file itself.
	filename string
	writable bool
	compress bool
	level    int
	header   string
	endian   binary.ByteOrder
}

// Option configures a Writer.
type Option func(*Writer)

// WithCompression makes the writer store every variable in a zlib-compressed
// element, with the given compression level (zlib.DefaultCompression, zlib.BestSpeed...).
func WithCompression(level int) Option {
	return func(W *Writer) {
		W.compress = true
		W.level = level
	}
}

// WithHeaderText replaces the descriptive text of the file header. It is
// truncated to 116 bytes.
func WithHeaderText(text string) Option {
	return func(W *Writer) {
		W.header = text
	}
}

// DefaultHeaderText returns the header text used when none is given.
func DefaultHeaderText(t time.Time) string {
	return fmt.Sprintf("MATLAB 5.0 MAT-file Platform: posix, Created on: %s", t.Format(time.ANSIC))
}

// Create creates (or truncates) the file path and returns a Writer on it, with
// the header already written.
func Create(path string, opts ...Option) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, newError(err.Error(), path, true, "os.Create", "Create")
	}
	W, err := newWriter(f, path, opts...)
	if err != nil {
		f.Close()
		return nil, errDecorate(err, "Create", path)
	}
	W.f = f
	return W, nil
}

// NewWriter returns a Writer that writes a MAT file to w. The header is written
// immediately. Closing the Writer does not close w.
func NewWriter(w io.Writer, opts ...Option) (*Writer, error) {
	W, err := newWriter(w, "", opts...)
	if err != nil {
		return nil, errDecorate(err, "NewWriter", "")
	}
	return W, nil
}

func newWriter(w io.Writer, name string, opts ...Option) (*Writer, error) {
	W := &Writer{
		w:        bufio.NewWriter(w),
		filename: name,
		level:    zlib.DefaultCompression,
		endian:   binary.LittleEndian,
	}
	for _, o := range opts {
		o(W)
	}
	if W.header == "" {
		W.header = DefaultHeaderText(time.Now())
	}
	if err := W.writeHeader(); err != nil {
		return nil, err
	}
	W.writable = true
	return W, nil
}

func (W *Writer) writeHeader() error {
	text := W.header
	if len(text) > headerTextLen {
		text = text[:headerTextLen]
	}
	h := make([]byte, headerLen)
	copy(h, text+strings.Repeat(" ", headerTextLen-len(text)))
	//bytes 116-123 (subsystem data offset) stay zero.
	W.endian.PutUint16(h[124:], version)
	W.endian.PutUint16(h[126:], endianIndicator)
	if _, err := W.w.Write(h); err != nil {
		return newError(err.Error(), W.filename, true, "Write", "writeHeader")
	}
	return nil
}

// WriteVar writes value to the file under the given name. Supported
// values are strings, scalars and slices of the fixed-size numeric
// types, int and uint (stored as int64 and uint64), bool, and gonum
// mat.Matrix (stored as a double matrix). Slices are stored as 1xN row
// vectors.
func (W *Writer) WriteVar(name string, value any) error {
	if !W.writable {
		return newError(NotWritable, W.filename, true, "WriteVar")
	}
	if err := checkName(name); err != nil {
		return newError(err.Error(), W.filename, true, "WriteVar")
	}
	elem, err := W.matrixElement(name, value)
	if err != nil {
		return errDecorate(err, "WriteVar", W.filename)
	}
	if W.compress {
		elem, err = W.compressElement(elem)
		if err != nil {
			return errDecorate(err, "WriteVar", W.filename)
		}
	}
	if _, err := W.w.Write(elem); err != nil {
		return newError(err.Error(), W.filename, true, "Write", "WriteVar")
	}
	return nil
}

// Close flushes the buffered data and, if the Writer created the file, closes it.
// Closing twice is a no-op.
func (W *Writer) Close() error {
	if !W.writable {
		return nil
	}
	W.writable = false
	err := W.w.Flush()
	if W.f != nil {
		if cerr := W.f.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return newError(err.Error(), W.filename, true, "Close")
	}
	return nil
}

// WriteFile creates path and writes vars to it, in order.
func WriteFile(path string, vars []Var, opts ...Option) error {
	W, err := Create(path, opts...)
	if err != nil {
		return errDecorate(err, "WriteFile", path)
	}
	for _, v := range vars {
		if err := W.WriteVar(v.Name, v.Value); err != nil {
			W.Close()
			return errDecorate(err, "WriteFile", path)
		}
	}
	if err := W.Close(); err != nil {
		return errDecorate(err, "WriteFile", path)
	}
	return nil
}

func checkName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%s: empty name", BadName)
	case len(name) > maxNameLen:
		return fmt.Errorf("%s: %q is longer than %d bytes", BadName, name, maxNameLen)
	case strings.IndexByte(name, 0) >= 0:
		return fmt.Errorf("%s: %q contains a NUL byte", BadName, name)
	}
	return nil
}

// array is a value ready to be written: its class, flags, dimensions and
// the data sub-element.
type array struct {
	class Class
	flags uint32
	dims  []int32
	typ   uint32
	data  []byte
}

// matrixElement returns the complete miMATRIX element (tag included) for value.
func (W *Writer) matrixElement(name string, value any) ([]byte, error) {
	a, err := W.toArray(value)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	flags := make([]byte, 8)
	W.endian.PutUint32(flags, uint32(a.class)|a.flags<<8)
	W.putElement(&body, miUINT32, flags)
	dims := make([]byte, 4*len(a.dims))
	for i, d := range a.dims {
		W.endian.PutUint32(dims[4*i:], uint32(d))
	}
	W.putElement(&body, miINT32, dims)
	W.putElement(&body, miINT8, []byte(name))
	W.putElement(&body, a.typ, a.data)

	ret := make([]byte, 8, 8+body.Len())
	W.endian.PutUint32(ret, miMATRIX)
	W.endian.PutUint32(ret[4:], uint32(body.Len()))
	return append(ret, body.Bytes()...), nil
}

// putElement writes a data element to buf, padded to a multiple of 8 bytes.
// Payloads of up to 4 bytes use the small element format.
func (W *Writer) putElement(buf *bytes.Buffer, typ uint32, payload []byte) {
	tag := make([]byte, 8)
	if len(payload) > 0 && len(payload) <= 4 {
		W.endian.PutUint32(tag, uint32(len(payload))<<16|typ)
		copy(tag[4:], payload)
		buf.Write(tag)
		return
	}
	W.endian.PutUint32(tag, typ)
	W.endian.PutUint32(tag[4:], uint32(len(payload)))
	buf.Write(tag)
	buf.Write(payload)
	if pad := len(payload) % 8; pad != 0 {
		buf.Write(make([]byte, 8-pad))
	}
}

// compressElement wraps a whole element in a miCOMPRESSED one. Compressed
// elements are not padded.
func (W *Writer) compressElement(elem []byte) ([]byte, error) {
	var zbuf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&zbuf, W.level)
	if err != nil {
		return nil, newError(err.Error(), W.filename, true, "zlib.NewWriterLevel", "compressElement")
	}
	if _, err := zw.Write(elem); err != nil {
		return nil, newError(err.Error(), W.filename, true, "zlib.Write", "compressElement")
	}
	if err := zw.Close(); err != nil {
		return nil, newError(err.Error(), W.filename, true, "zlib.Close", "compressElement")
	}
	ret := make([]byte, 8, 8+zbuf.Len())
	W.endian.PutUint32(ret, miCOMPRESSED)
	W.endian.PutUint32(ret[4:], uint32(zbuf.Len()))
	return append(ret, zbuf.Bytes()...), nil
}

func (W *Writer) toArray(value any) (*array, error) {
	switch v := value.(type) {
	case string:
		return W.charArray(v), nil
	case bool:
		var b uint8
		if v {
			b = 1
		}
		a := W.numeric(Uint8, []uint8{b}, false)
		a.flags = flagLogical
		return a, nil
	case []bool:
		b := make([]uint8, len(v))
		for i, x := range v {
			if x {
				b[i] = 1
			}
		}
		a := W.numeric(Uint8, b, true)
		a.flags = flagLogical
		return a, nil
	case int:
		return W.numeric(Int64, []int64{int64(v)}, false), nil
	case uint:
		return W.numeric(Uint64, []uint64{uint64(v)}, false), nil
	case []int:
		d := make([]int64, len(v))
		for i, x := range v {
			d[i] = int64(x)
		}
		return W.numeric(Int64, d, true), nil
	case []uint:
		d := make([]uint64, len(v))
		for i, x := range v {
			d[i] = uint64(x)
		}
		return W.numeric(Uint64, d, true), nil
	case int8:
		return W.numeric(Int8, []int8{v}, false), nil
	case uint8:
		return W.numeric(Uint8, []uint8{v}, false), nil
	case int16:
		return W.numeric(Int16, []int16{v}, false), nil
	case uint16:
		return W.numeric(Uint16, []uint16{v}, false), nil
	case int32:
		return W.numeric(Int32, []int32{v}, false), nil
	case uint32:
		return W.numeric(Uint32, []uint32{v}, false), nil
	case int64:
		return W.numeric(Int64, []int64{v}, false), nil
	case uint64:
		return W.numeric(Uint64, []uint64{v}, false), nil
	case float32:
		return W.numeric(Single, []float32{v}, false), nil
	case float64:
		return W.numeric(Double, []float64{v}, false), nil
	case []int8:
		return W.numeric(Int8, v, true), nil
	case []uint8:
		return W.numeric(Uint8, v, true), nil
	case []int16:
		return W.numeric(Int16, v, true), nil
	case []uint16:
		return W.numeric(Uint16, v, true), nil
	case []int32:
		return W.numeric(Int32, v, true), nil
	case []uint32:
		return W.numeric(Uint32, v, true), nil
	case []int64:
		return W.numeric(Int64, v, true), nil
	case []uint64:
		return W.numeric(Uint64, v, true), nil
	case []float32:
		return W.numeric(Single, v, true), nil
	case []float64:
		return W.numeric(Double, v, true), nil
	case mat.Matrix:
		return W.matrix(v), nil
	}
	return nil, newError(fmt.Sprintf("%s %T", Unsupported, value), W.filename, true, "toArray")
}

// numeric packs a slice of a fixed-size type. Vectors are 1xN, scalars 1x1.
func (W *Writer) numeric(class Class, data any, vector bool) *array {
	n := 1
	if vector {
		n = sliceLen(data)
	}
	var buf bytes.Buffer
	buf.Grow(n * typeSize[classType[class]])
	//binary.Write only fails on non fixed-size data, which can't get here.
	binary.Write(&buf, W.endian, data)
	return &array{class: class, dims: []int32{1, int32(n)}, typ: classType[class], data: buf.Bytes()}
}

// matrix packs a gonum matrix as a double array, in column-major order.
func (W *Writer) matrix(m mat.Matrix) *array {
	r, c := m.Dims()
	data := make([]byte, 8*r*c)
	k := 0
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			W.endian.PutUint64(data[k:], math.Float64bits(m.At(i, j)))
			k += 8
		}
	}
	return &array{class: Double, dims: []int32{int32(r), int32(c)}, typ: miDOUBLE, data: data}
}

// charArray stores s as a 1xN char array of UTF-16 code units. The empty
// string is a 0x0 array.
func (W *Writer) charArray(s string) *array {
	units := utf16.Encode([]rune(s))
	data := make([]byte, 2*len(units))
	for i, u := range units {
		W.endian.PutUint16(data[2*i:], u)
	}
	dims := []int32{1, int32(len(units))}
	if len(units) == 0 {
		dims = []int32{0, 0}
	}
	return &array{class: Char, dims: dims, typ: miUINT16, data: data}
}

func sliceLen(d any) int {
	switch s := d.(type) {
	case []int8:
		return len(s)
	case []uint8:
		return len(s)
	case []int16:
		return len(s)
	case []uint16:
		return len(s)
	case []int32:
		return len(s)
	case []uint32:
		return len(s)
	case []int64:
		return len(s)
	case []uint64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	}
	return 0
}
