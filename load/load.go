/*
 * load.go, part of seismat.
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

// Package load reads a seismat.Stream from a local file or an http(s) URL.
// Gzip, zstd and lzw compressed sources are decompressed on the fly,
// depending on their extension.
package load

import (
	"bufio"
	"bytes"
	"compress/lzw"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/c2h5oh/datasize"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rmera/seismat"
	"github.com/rmera/seismat/internal/logger"
	"github.com/rmera/seismat/mseed"
)

const (
	lzwOrder        = lzw.MSB
	lzwLitwidth int = 8
)

// Defaults for the download options.
const (
	DefaultRetries = 3
	DefaultDelay   = time.Second
	DefaultMaxSize = 512 * datasize.MB
	DefaultTimeout = 2 * time.Minute
)

type options struct {
	retries uint
	delay   time.Duration
	maxSize datasize.ByteSize
	client  *http.Client
	decoder seismat.StreamDecoder
	log     *logrus.Logger
}

// Option configures Read.
type Option func(*options)

// Retries sets how many times a failed download is retried.
func Retries(n uint) Option {
	return func(o *options) { o.retries = n }
}

// Delay sets the wait between download attempts.
func Delay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// MaxSize sets the largest download accepted. Zero means no limit.
func MaxSize(s datasize.ByteSize) Option {
	return func(o *options) { o.maxSize = s }
}

// Client sets the http client used for downloads.
func Client(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// Decoder replaces the miniSEED decoder.
func Decoder(d seismat.StreamDecoder) Option {
	return func(o *options) { o.decoder = d }
}

// Logger sets the logger. The shared one is used otherwise.
func Logger(l *logrus.Logger) Option {
	return func(o *options) { o.log = l }
}

// IsURL returns true if s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Read reads a stream from source, which is either an http(s) URL or
// the path to a local file. Downloads are retried on network errors and
// server-side (5xx) failures.
func Read(ctx context.Context, source string, opts ...Option) (seismat.Stream, error) {
	o := &options{
		retries: DefaultRetries,
		delay:   DefaultDelay,
		maxSize: DefaultMaxSize,
	}
	for _, f := range opts {
		f(o)
	}
	o.log = logger.Or(o.log)
	if o.client == nil {
		o.client = &http.Client{Timeout: DefaultTimeout}
	}
	if o.decoder == nil {
		o.decoder = mseed.Decoder{Log: o.log}
	}
	var in io.Reader
	name := source
	if IsURL(source) {
		b, err := fetch(ctx, source, o)
		if err != nil {
			return nil, err
		}
		u, _ := url.Parse(source)
		name = path.Base(u.Path)
		in = bytes.NewReader(b)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, errors.Wrap(err, "load")
		}
		defer f.Close()
		in = bufio.NewReader(f)
	}
	rc, err := decompress(in, name, o.log)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing %s", source)
	}
	defer rc.Close()
	st, err := o.decoder.Decode(rc, source)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", source)
	}
	o.log.WithFields(logrus.Fields{"source": source, "traces": st.Len()}).Debug("stream loaded")
	return st, nil
}

// fetch downloads u, retrying as set in o.
func fetch(ctx context.Context, u string, o *options) ([]byte, error) {
	var body []byte
	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		resp, err := o.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("GET %s: %s", u, resp.Status)
			if resp.StatusCode < 500 {
				return retry.Unrecoverable(err)
			}
			return err
		}
		var r io.Reader = resp.Body
		if o.maxSize > 0 {
			r = io.LimitReader(resp.Body, int64(o.maxSize.Bytes())+1)
		}
		b, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if o.maxSize > 0 && uint64(len(b)) > o.maxSize.Bytes() {
			return retry.Unrecoverable(fmt.Errorf("GET %s: body larger than %s", u, o.maxSize.HumanReadable()))
		}
		body = b
		return nil
	}
	err := retry.Do(attempt,
		retry.Attempts(o.retries+1),
		retry.Delay(o.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			o.log.WithFields(logrus.Fields{"url": u, "attempt": n + 1}).Warnf("download failed: %v", err)
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "download")
	}
	o.log.WithFields(logrus.Fields{"url": u, "size": datasize.ByteSize(len(body)).HumanReadable()}).Debug("downloaded")
	return body, nil
}

// decompress returns a reader that decompresses r according to the
// extension of name: .gz, .zst (or .zstd) and .lzw. Other extensions
// are read as they are.
func decompress(r io.Reader, name string, log *logrus.Logger) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		return gzip.NewReader(r)
	case ".zst", ".zstd":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case ".lzw":
		return lzw.NewReader(r, lzwOrder, lzwLitwidth), nil
	}
	log.WithField("source", name).Debug("reading as uncompressed")
	return io.NopCloser(r), nil
}
