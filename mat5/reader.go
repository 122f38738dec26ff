/*
 * reader.go, part of seismat.
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
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"
	"gonum.org/v1/gonum/mat"
)

// Variable is a variable read from a MAT file.
type Variable struct {
	Name    string
	Class   Class
	Dims    []int
	Logical bool
	//Data is a string for char arrays and a slice of the class's
	//Go type ([]float64 for double, []int32 for int32...) for numeric
	//arrays, in the column-major order of the file. It is nil for
	//classes this package doesn't decode (cell, struct, sparse, object).
	Data any
}

// String returns the text of a char variable, and false if the
// variable is not a char array.
func (V *Variable) String() (string, bool) {
	s, ok := V.Data.(string)
	return s, ok
}

// Len returns the number of elements of the variable.
func (V *Variable) Len() int {
	n := 1
	for _, d := range V.Dims {
		n *= d
	}
	return n
}

// Dense returns a 2-D numeric variable as a gonum Dense matrix, converting
// the elements to float64.
func (V *Variable) Dense() (*mat.Dense, error) {
	if len(V.Dims) != 2 {
		return nil, newError(fmt.Sprintf("%d dimensions, need 2", len(V.Dims)), "", true, "Dense")
	}
	r, c := V.Dims[0], V.Dims[1]
	if r == 0 || c == 0 {
		return nil, newError("empty array", "", true, "Dense")
	}
	colmajor, err := toFloat64s(V.Data)
	if err != nil {
		return nil, errDecorate(err, "Dense", "")
	}
	if len(colmajor) != r*c {
		return nil, newError(WrongFormat, "", true, "Dense")
	}
	M := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			M.Set(i, j, colmajor[j*r+i])
		}
	}
	return M, nil
}

// Reader reads the variables of a Level 5 MAT file, in order.
type Reader struct {
	r        *bufio.Reader
	f        io.Closer
	filename string
	order    binary.ByteOrder
	// Header is the descriptive text of the file, without trailing spaces.
	Header string
}

// Open opens the MAT file path for reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(err.Error(), path, true, "os.Open", "Open")
	}
	R, err := newReader(f, path)
	if err != nil {
		f.Close()
		return nil, errDecorate(err, "Open", path)
	}
	R.f = f
	return R, nil
}

// NewReader reads the MAT file header from r and returns a Reader for
// the rest of the file.
func NewReader(r io.Reader) (*Reader, error) {
	R, err := newReader(r, "")
	if err != nil {
		return nil, errDecorate(err, "NewReader", "")
	}
	return R, nil
}

func newReader(r io.Reader, name string) (*Reader, error) {
	R := &Reader{r: bufio.NewReader(r), filename: name}
	h := make([]byte, headerLen)
	if _, err := io.ReadFull(R.r, h); err != nil {
		return nil, newError(NotLevel5+": "+err.Error(), name, true, "newReader")
	}
	switch string(h[126:128]) {
	case "IM":
		R.order = binary.LittleEndian
	case "MI":
		R.order = binary.BigEndian
	default:
		return nil, newError(NotLevel5+": bad endian indicator", name, true, "newReader")
	}
	if v := R.order.Uint16(h[124:]); v != version {
		return nil, newError(fmt.Sprintf("%s: version 0x%04x", NotLevel5, v), name, true, "newReader")
	}
	R.Header = strings.TrimRight(string(h[:headerTextLen]), " \x00")
	return R, nil
}

// Close closes the file, if the Reader opened it.
func (R *Reader) Close() error {
	if R.f == nil {
		return nil
	}
	err := R.f.Close()
	R.f = nil
	return err
}

// Next returns the next variable in the file, or io.EOF when there are no more.
// Top-level elements that are not arrays are skipped.
func (R *Reader) Next() (*Variable, error) {
	for {
		typ, data, err := readElement(R.r, R.order)
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, newError(err.Error(), R.filename, true, "readElement", "Next")
		}
		if typ == miCOMPRESSED {
			typ, data, err = R.inflate(data)
			if err != nil {
				return nil, errDecorate(err, "Next", R.filename)
			}
		}
		if typ != miMATRIX {
			continue
		}
		V, err := R.parseMatrix(data)
		if err != nil {
			return nil, errDecorate(err, "Next", R.filename)
		}
		return V, nil
	}
}

// ReadFile returns all the variables in the MAT file path.
func ReadFile(path string) ([]*Variable, error) {
	R, err := Open(path)
	if err != nil {
		return nil, errDecorate(err, "ReadFile", path)
	}
	defer R.Close()
	var ret []*Variable
	for {
		V, err := R.Next()
		if err == io.EOF {
			return ret, nil
		}
		if err != nil {
			return nil, errDecorate(err, "ReadFile", path)
		}
		ret = append(ret, V)
	}
}

func (R *Reader) inflate(data []byte) (uint32, []byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return 0, nil, newError(err.Error(), R.filename, true, "zlib.NewReader", "inflate")
	}
	defer zr.Close()
	typ, inner, err := readElement(bufio.NewReader(zr), R.order)
	if err != nil {
		return 0, nil, newError(err.Error(), R.filename, true, "readElement", "inflate")
	}
	return typ, inner, nil
}

// readElement reads one data element, with either tag format, and skips its
// padding. It returns io.EOF only if there is nothing left at all.
func readElement(r io.Reader, order binary.ByteOrder) (uint32, []byte, error) {
	tag := make([]byte, 8)
	n, err := io.ReadFull(r, tag)
	if err == io.EOF {
		return 0, nil, io.EOF
	}
	if err != nil {
		return 0, nil, fmt.Errorf("truncated tag (%d bytes)", n)
	}
	first := order.Uint32(tag)
	if small := first >> 16; small != 0 {
		if small > 4 {
			return 0, nil, fmt.Errorf("%s: small element of %d bytes", WrongFormat, small)
		}
		return first & 0xffff, tag[4 : 4+small], nil
	}
	typ, size := first, order.Uint32(tag[4:])
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, nil, fmt.Errorf("element of type %d truncated: %s", typ, err)
	}
	if pad := size % 8; pad != 0 && typ != miCOMPRESSED {
		//a missing padding at the very end of the file is tolerated.
		io.ReadFull(r, make([]byte, 8-pad))
	}
	return typ, data, nil
}

func (R *Reader) parseMatrix(data []byte) (*Variable, error) {
	sub := bytes.NewReader(data)
	wrap := func(err error) error {
		return newError(err.Error(), R.filename, true, "parseMatrix")
	}
	typ, flags, err := readElement(sub, R.order)
	if err != nil {
		return nil, wrap(err)
	}
	if typ != miUINT32 || len(flags) != 8 {
		return nil, newError(WrongFormat+": bad array flags", R.filename, true, "parseMatrix")
	}
	fw := R.order.Uint32(flags)
	V := &Variable{Class: Class(fw & 0xff), Logical: (fw>>8)&flagLogical != 0}
	complexArr := (fw>>8)&flagComplex != 0

	typ, dims, err := readElement(sub, R.order)
	if err != nil {
		return nil, wrap(err)
	}
	if typ != miINT32 || len(dims)%4 != 0 {
		return nil, newError(WrongFormat+": bad dimensions", R.filename, true, "parseMatrix")
	}
	for i := 0; i < len(dims); i += 4 {
		V.Dims = append(V.Dims, int(int32(R.order.Uint32(dims[i:]))))
	}

	_, name, err := readElement(sub, R.order)
	if err != nil {
		return nil, wrap(err)
	}
	V.Name = string(name)

	if V.Class == Char {
		typ, raw, err := readElement(sub, R.order)
		if err != nil {
			return nil, wrap(err)
		}
		V.Data, err = decodeChars(typ, raw, R.order)
		if err != nil {
			return nil, newError(err.Error(), R.filename, true, "parseMatrix")
		}
		return V, nil
	}
	if _, ok := classType[V.Class]; !ok {
		return V, nil //not decoded
	}
	if complexArr {
		return nil, newError(UnsupportedData+": complex array "+V.Name, R.filename, true, "parseMatrix")
	}
	typ, raw, err := readElement(sub, R.order)
	if err != nil {
		return nil, wrap(err)
	}
	V.Data, err = decodeNumeric(V.Class, typ, raw, R.order)
	if err != nil {
		return nil, newError(err.Error(), R.filename, true, "parseMatrix")
	}
	return V, nil
}

func decodeChars(typ uint32, raw []byte, order binary.ByteOrder) (string, error) {
	switch typ {
	case miUTF8, miUINT8, miINT8:
		return string(raw), nil
	case miUINT16, miUTF16:
		units := make([]uint16, len(raw)/2)
		for i := range units {
			units[i] = order.Uint16(raw[2*i:])
		}
		return string(utf16.Decode(units)), nil
	case miUTF32, miINT32, miUINT32:
		runes := make([]rune, len(raw)/4)
		for i := range runes {
			runes[i] = rune(order.Uint32(raw[4*i:]))
		}
		return string(runes), nil
	}
	return "", fmt.Errorf("%s: type %d for a char array", UnsupportedData, typ)
}

// decodeNumeric returns raw, of data type typ, as a slice of the Go type of
// class. The file can store a class with a smaller data type.
func decodeNumeric(class Class, typ uint32, raw []byte, order binary.ByteOrder) (any, error) {
	size, ok := typeSize[typ]
	if !ok || typ == miUTF8 || typ == miUTF16 || typ == miUTF32 {
		return nil, fmt.Errorf("%s: type %d for a numeric array", UnsupportedData, typ)
	}
	n := len(raw) / size
	switch class {
	case Double:
		return decodeAs[float64](typ, raw, n, order), nil
	case Single:
		return decodeAs[float32](typ, raw, n, order), nil
	case Int8:
		return decodeAs[int8](typ, raw, n, order), nil
	case Uint8:
		return decodeAs[uint8](typ, raw, n, order), nil
	case Int16:
		return decodeAs[int16](typ, raw, n, order), nil
	case Uint16:
		return decodeAs[uint16](typ, raw, n, order), nil
	case Int32:
		return decodeAs[int32](typ, raw, n, order), nil
	case Uint32:
		return decodeAs[uint32](typ, raw, n, order), nil
	case Int64:
		return decodeAs[int64](typ, raw, n, order), nil
	case Uint64:
		return decodeAs[uint64](typ, raw, n, order), nil
	}
	return nil, fmt.Errorf("%s: class %s", UnsupportedData, class)
}

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func decodeAs[T number](typ uint32, raw []byte, n int, order binary.ByteOrder) []T {
	ret := make([]T, n)
	for i := range ret {
		switch typ {
		case miINT8:
			ret[i] = T(int8(raw[i]))
		case miUINT8:
			ret[i] = T(raw[i])
		case miINT16:
			ret[i] = T(int16(order.Uint16(raw[2*i:])))
		case miUINT16:
			ret[i] = T(order.Uint16(raw[2*i:]))
		case miINT32:
			ret[i] = T(int32(order.Uint32(raw[4*i:])))
		case miUINT32:
			ret[i] = T(order.Uint32(raw[4*i:]))
		case miINT64:
			ret[i] = T(int64(order.Uint64(raw[8*i:])))
		case miUINT64:
			ret[i] = T(order.Uint64(raw[8*i:]))
		case miSINGLE:
			ret[i] = T(math.Float32frombits(order.Uint32(raw[4*i:])))
		case miDOUBLE:
			ret[i] = T(math.Float64frombits(order.Uint64(raw[8*i:])))
		}
	}
	return ret
}

func toFloat64s(d any) ([]float64, error) {
	switch s := d.(type) {
	case []float64:
		return s, nil
	case []float32:
		return widen(s), nil
	case []int8:
		return widen(s), nil
	case []uint8:
		return widen(s), nil
	case []int16:
		return widen(s), nil
	case []uint16:
		return widen(s), nil
	case []int32:
		return widen(s), nil
	case []uint32:
		return widen(s), nil
	case []int64:
		return widen(s), nil
	case []uint64:
		return widen(s), nil
	}
	return nil, newError(fmt.Sprintf("%s %T", Unsupported, d), "", true, "toFloat64s")
}

func widen[T number](s []T) []float64 {
	ret := make([]float64, len(s))
	for i, v := range s {
		ret[i] = float64(v)
	}
	return ret
}
