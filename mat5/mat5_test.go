/*
 * mat5_test.go, part of seismat.
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
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/rmera/seismat"
)

func bigEndian(W *Writer) { W.endian = binary.BigEndian }

func readAll(t *testing.T, b []byte) []*Variable {
	t.Helper()
	R, err := NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	var ret []*Variable
	for {
		V, err := R.Next()
		if err == io.EOF {
			return ret
		}
		require.NoError(t, err)
		ret = append(ret, V)
	}
}

func TestHeader(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf, WithHeaderText("MATLAB 5.0 MAT-file test"))
	require.NoError(Te, err)
	require.NoError(Te, W.Close())
	b := buf.Bytes()
	require.Len(Te, b, 128)
	assert.Equal(Te, "MATLAB 5.0 MAT-file test ", string(b[:25]))
	assert.Equal(Te, byte(' '), b[115])
	assert.Equal(Te, make([]byte, 8), b[116:124])
	assert.Equal(Te, []byte{0x00, 0x01}, b[124:126])
	assert.Equal(Te, "IM", string(b[126:]))

	R, err := NewReader(bytes.NewReader(b))
	require.NoError(Te, err)
	assert.Equal(Te, "MATLAB 5.0 MAT-file test", R.Header)
	_, err = R.Next()
	assert.Equal(Te, io.EOF, err)
}

func TestDefaultHeaderText(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf)
	require.NoError(Te, err)
	require.NoError(Te, W.Close())
	assert.Equal(Te, "MATLAB 5.0 MAT-file Platform: posix, Created on: ", string(buf.Bytes()[:49]))
}

// The exact bytes of a two-element int32 vector named "x".
func TestElementLayout(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf)
	require.NoError(Te, err)
	require.NoError(Te, W.WriteVar("x", []int32{1, 2}))
	require.NoError(Te, W.Close())
	want := []byte{
		14, 0, 0, 0, 56, 0, 0, 0, //miMATRIX, 56 bytes
		6, 0, 0, 0, 8, 0, 0, 0, 12, 0, 0, 0, 0, 0, 0, 0, //flags: int32 class
		5, 0, 0, 0, 8, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, //dims 1x2
		1, 0, 1, 0, 'x', 0, 0, 0, //small element name
		5, 0, 0, 0, 8, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, //data
	}
	assert.Equal(Te, want, buf.Bytes()[128:])
}

func TestRoundTrip(Te *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	vars := []Var{
		{"network", "BW"},
		{"location", ""},
		{"unicode", "Ñuñoa µ"},
		{"i8", []int8{-1, 2}},
		{"u8", []uint8{255}},
		{"i16", []int16{-300, 300, 7}},
		{"u16", []uint16{65535}},
		{"data", []int32{1, -2, 3, 2147483647}},
		{"u32", []uint32{4294967295}},
		{"i64", []int64{-1 << 62}},
		{"u64", []uint64{1 << 63}},
		{"f32", []float32{0.5, -1.25}},
		{"f64", []float64{0.005, 200, -1e-300}},
		{"empty", []float64{}},
		{"scalar", 3.5},
		{"count", 7},
		{"flag", true},
		{"m", m},
	}
	for _, compressed := range []bool{false, true} {
		var buf bytes.Buffer
		var opts []Option
		if compressed {
			opts = append(opts, WithCompression(zlib.BestSpeed))
		}
		W, err := NewWriter(&buf, opts...)
		require.NoError(Te, err)
		for _, v := range vars {
			require.NoError(Te, W.WriteVar(v.Name, v.Value), v.Name)
		}
		require.NoError(Te, W.Close())

		got := readAll(Te, buf.Bytes())
		require.Len(Te, got, len(vars))
		byName := make(map[string]*Variable)
		for _, V := range got {
			byName[V.Name] = V
		}
		for _, v := range vars[:14] {
			V := byName[v.Name]
			require.NotNil(Te, V, v.Name)
			if s, ok := v.Value.(string); ok {
				str, isStr := V.String()
				assert.True(Te, isStr)
				assert.Equal(Te, s, str)
				assert.Equal(Te, Char, V.Class)
				continue
			}
			if diff := cmp.Diff(v.Value, V.Data); diff != "" {
				Te.Errorf("%s (compressed %v) mismatch (-want +got):\n%s", v.Name, compressed, diff)
			}
			assert.Equal(Te, []int{1, seismat.SampleLen(v.Value)}, V.Dims, v.Name)
		}
		assert.Equal(Te, []int{0, 0}, byName["location"].Dims)
		assert.Equal(Te, Int32, byName["data"].Class)
		assert.Equal(Te, Single, byName["f32"].Class)
		assert.Equal(Te, []float64{3.5}, byName["scalar"].Data)
		assert.Equal(Te, []int64{7}, byName["count"].Data)
		assert.True(Te, byName["flag"].Logical)
		assert.Equal(Te, []uint8{1}, byName["flag"].Data)

		M := byName["m"]
		assert.Equal(Te, []int{2, 3}, M.Dims)
		assert.Equal(Te, []float64{1, 4, 2, 5, 3, 6}, M.Data)
		D, err := M.Dense()
		require.NoError(Te, err)
		assert.True(Te, mat.Equal(m, D))
	}
}

func TestCompressedIsSmaller(Te *testing.T) {
	data := make([]int32, 10000)
	plain, packed := new(bytes.Buffer), new(bytes.Buffer)
	for _, c := range []struct {
		buf  *bytes.Buffer
		opts []Option
	}{{plain, nil}, {packed, []Option{WithCompression(zlib.DefaultCompression)}}} {
		W, err := NewWriter(c.buf, c.opts...)
		require.NoError(Te, err)
		require.NoError(Te, W.WriteVar("data", data))
		require.NoError(Te, W.Close())
	}
	assert.Less(Te, packed.Len(), plain.Len())
	assert.Equal(Te, uint32(miCOMPRESSED), binary.LittleEndian.Uint32(packed.Bytes()[128:]))
}

func TestBigEndian(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf, bigEndian)
	require.NoError(Te, err)
	require.NoError(Te, W.WriteVar("station", "BGLD"))
	require.NoError(Te, W.WriteVar("data", []int16{1, -1, 256}))
	require.NoError(Te, W.Close())
	assert.Equal(Te, "MI", string(buf.Bytes()[126:128]))

	got := readAll(Te, buf.Bytes())
	require.Len(Te, got, 2)
	s, _ := got[0].String()
	assert.Equal(Te, "BGLD", s)
	assert.Equal(Te, []int16{1, -1, 256}, got[1].Data)
}

// MATLAB may store a double array with a narrower data type.
func TestNarrowStorage(Te *testing.T) {
	d, err := decodeNumeric(Double, miUINT8, []byte{1, 2, 255}, binary.LittleEndian)
	require.NoError(Te, err)
	assert.Equal(Te, []float64{1, 2, 255}, d)
	_, err = decodeNumeric(Double, miUTF8, []byte{1}, binary.LittleEndian)
	assert.Error(Te, err)
}

func TestWriteFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "out.mat")
	require.NoError(Te, WriteFile(path, []Var{{"a", "first"}}))
	require.NoError(Te, WriteFile(path, []Var{{"b", []float64{1}}}))
	got, err := ReadFile(path)
	require.NoError(Te, err)
	require.Len(Te, got, 1)
	assert.Equal(Te, "b", got[0].Name)
}

func TestWriterErrors(Te *testing.T) {
	var buf bytes.Buffer
	W, err := NewWriter(&buf)
	require.NoError(Te, err)
	for _, name := range []string{"", "a\x00b", string(make([]byte, 64))} {
		err := W.WriteVar(name, 1.0)
		require.Error(Te, err)
		assert.Equal(Te, "mat", err.(*Error).Format())
	}
	err = W.WriteVar("x", map[string]int{})
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), Unsupported)
	assert.Contains(Te, err.(*Error).Decorate(""), "WriteVar")

	require.NoError(Te, W.Close())
	require.NoError(Te, W.Close())
	assert.Error(Te, W.WriteVar("x", 1.0))

	_, err = Create(filepath.Join(Te.TempDir(), "missing", "x.mat"))
	require.Error(Te, err)
	assert.True(Te, err.(*Error).Critical())
}

func TestReaderErrors(Te *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("short")))
	assert.Error(Te, err)

	bad := make([]byte, 128)
	copy(bad[126:], "XX")
	_, err = NewReader(bytes.NewReader(bad))
	assert.Error(Te, err)

	var buf bytes.Buffer
	W, _ := NewWriter(&buf)
	require.NoError(Te, W.WriteVar("data", []float64{1, 2, 3}))
	require.NoError(Te, W.Close())
	R, err := NewReader(bytes.NewReader(buf.Bytes()[:buf.Len()-5]))
	require.NoError(Te, err)
	_, err = R.Next()
	assert.Error(Te, err)

	_, err = ReadFile(filepath.Join(Te.TempDir(), "nothing.mat"))
	assert.Error(Te, err)
}

func TestOpenFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "f.mat")
	require.NoError(Te, WriteFile(path, []Var{{"channel", "EHZ"}}, WithCompression(zlib.BestCompression)))
	fi, err := os.Stat(path)
	require.NoError(Te, err)
	assert.Greater(Te, fi.Size(), int64(128))
	R, err := Open(path)
	require.NoError(Te, err)
	V, err := R.Next()
	require.NoError(Te, err)
	assert.Equal(Te, "channel", V.Name)
	require.NoError(Te, R.Close())
	require.NoError(Te, R.Close())
}
