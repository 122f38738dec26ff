/*
 * load_test.go, part of seismat.
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

package load

import (
	"bytes"
	"compress/lzw"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/seismat"
	"github.com/rmera/seismat/mseed"
)

var samples = []int32{10, 20, -30, 40, 50, 60, -70, 80}

// miniSEED returns two channels of BW.BGLD as miniSEED records.
func miniSEED(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, ch := range []string{"EHZ", "EHN"} {
		tr, err := seismat.NewTrace(seismat.NewStats(
			"network", "BW", "station", "BGLD", "location", "", "channel", ch,
			"starttime", time.Date(2010, 2, 6, 0, 0, 0, 0, time.UTC),
			"sampling_rate", 200.0), samples)
		require.NoError(t, err)
		require.NoError(t, mseed.Encode(&buf, tr, 256))
	}
	return buf.Bytes()
}

func checkStream(t *testing.T, st seismat.Stream) {
	t.Helper()
	require.Len(t, st, 2)
	assert.Equal(t, "BW.BGLD..EHZ", st[0].ID())
	assert.Equal(t, "BW.BGLD..EHN", st[1].ID())
	if diff := cmp.Diff(samples, st[1].Data); diff != "" {
		t.Errorf("samples differ (-want +got):\n%s", diff)
	}
}

func quiet() Option {
	l, _ := logtest.NewNullLogger()
	return Logger(l)
}

func TestIsURL(Te *testing.T) {
	cases := map[string]bool{
		"https://examples.obspy.org/BW.BGLD..EH.D.2010.037": true,
		"http://localhost:8080/data.mseed":                  true,
		"ftp://example.org/file":                            false,
		"BW.BGLD..EH.D.2010.037":                            false,
		"/tmp/data.mseed":                                   false,
		"https://":                                          false,
		"":                                                  false,
	}
	for in, want := range cases {
		assert.Equal(Te, want, IsURL(in), in)
	}
}

func TestReadFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "BW.BGLD..EH.D.2010.037")
	require.NoError(Te, os.WriteFile(path, miniSEED(Te), 0o644))
	st, err := Read(context.Background(), path, quiet())
	require.NoError(Te, err)
	checkStream(Te, st)

	_, err = Read(context.Background(), filepath.Join(Te.TempDir(), "missing"), quiet())
	assert.Error(Te, err)
}

func TestReadCompressed(Te *testing.T) {
	raw := miniSEED(Te)
	dir := Te.TempDir()
	write := func(name string, wrap func(io.Writer) io.WriteCloser) string {
		var buf bytes.Buffer
		w := wrap(&buf)
		_, err := w.Write(raw)
		require.NoError(Te, err)
		require.NoError(Te, w.Close())
		path := filepath.Join(dir, name)
		require.NoError(Te, os.WriteFile(path, buf.Bytes(), 0o644))
		return path
	}
	files := []string{
		write("data.mseed.gz", func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }),
		write("data.mseed.zst", func(w io.Writer) io.WriteCloser {
			z, err := zstd.NewWriter(w)
			require.NoError(Te, err)
			return z
		}),
		write("data.mseed.lzw", func(w io.Writer) io.WriteCloser { return lzw.NewWriter(w, lzwOrder, lzwLitwidth) }),
	}
	for _, f := range files {
		st, err := Read(context.Background(), f, quiet())
		require.NoError(Te, err, f)
		checkStream(Te, st)
	}

	bad := filepath.Join(dir, "bad.gz")
	require.NoError(Te, os.WriteFile(bad, raw, 0o644))
	_, err := Read(context.Background(), bad, quiet())
	assert.Error(Te, err)
}

func TestReadURL(Te *testing.T) {
	raw := miniSEED(Te)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write(raw)
	}))
	defer srv.Close()

	l, hook := logtest.NewNullLogger()
	st, err := Read(context.Background(), srv.URL+"/BW.BGLD..EH.D.2010.037",
		Retries(2), Delay(time.Millisecond), Logger(l))
	require.NoError(Te, err)
	checkStream(Te, st)
	assert.Equal(Te, int32(2), calls.Load())
	require.NotEmpty(Te, hook.Entries)
	assert.Equal(Te, logrus.WarnLevel, hook.Entries[0].Level)
}

func TestReadURLErrors(Te *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/broken":
			http.Error(w, "oops", http.StatusInternalServerError)
		default:
			w.Write(make([]byte, 4096))
		}
	}))
	defer srv.Close()
	ctx := context.Background()

	_, err := Read(ctx, srv.URL+"/missing", Retries(3), Delay(time.Millisecond), quiet())
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "404")
	assert.Equal(Te, int32(1), calls.Load(), "client errors must not be retried")

	calls.Store(0)
	_, err = Read(ctx, srv.URL+"/broken", Retries(2), Delay(time.Millisecond), quiet())
	require.Error(Te, err)
	assert.Equal(Te, int32(3), calls.Load())

	calls.Store(0)
	_, err = Read(ctx, srv.URL+"/big", MaxSize(1*datasize.KB), Delay(time.Millisecond), quiet())
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "larger than")
	assert.Equal(Te, int32(1), calls.Load())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Read(canceled, srv.URL+"/broken", Delay(time.Millisecond), quiet())
	assert.Error(Te, err)
}

type countingDecoder struct{ n int }

func (c *countingDecoder) Decode(r io.Reader, name string) (seismat.Stream, error) {
	c.n++
	return mseed.Decode(r, name)
}

func TestCustomDecoder(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "data.mseed")
	require.NoError(Te, os.WriteFile(path, miniSEED(Te), 0o644))
	d := &countingDecoder{}
	st, err := Read(context.Background(), path, Decoder(d), quiet())
	require.NoError(Te, err)
	checkStream(Te, st)
	assert.Equal(Te, 1, d.n)
}
