/*
 * convert.go, part of seismat.
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

// Package convert writes each trace of a seismat.Stream to its own
// MAT file. Every metadata field is stored as a string variable, and the
// samples go, untouched, to a variable called "data".
package convert

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"

	"github.com/rmera/seismat"
	"github.com/rmera/seismat/internal/logger"
	"github.com/rmera/seismat/mat5"
	"github.com/rmera/seismat/wplot"
)

// DefaultPrefix is prepended to the trace id to build file names.
const DefaultPrefix = "obspy.stream."

// DataName is the name of the variable that holds the samples.
const DataName = "data"

type options struct {
	dir      string
	prefix   string
	compress bool
	plot     bool
	log      *logrus.Logger
}

// Option configures Stream2MatFile.
type Option func(*options)

// Dir sets the output directory. The default is the current one.
func Dir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// Prefix replaces DefaultPrefix in the file names.
func Prefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// Compress stores the variables zlib-compressed.
func Compress(c bool) Option {
	return func(o *options) { o.compress = c }
}

// Plot also saves a PNG plot of each trace, next to its MAT file.
func Plot(p bool) Option {
	return func(o *options) { o.plot = p }
}

// Logger sets the logger. The shared one is used otherwise.
func Logger(l *logrus.Logger) Option {
	return func(o *options) { o.log = l }
}

// FileName returns the MAT file name for tr: prefix followed by
// NET.STA.LOC.CHA and ".mat". Empty identifier fields give empty segments,
// as in "obspy.stream.BW.BGLD..EHE.mat".
func FileName(prefix string, tr *seismat.Trace) string {
	return prefix + tr.ID() + ".mat"
}

// Variables returns the variables stored for tr, in order: one string per
// metadata field, then the samples under DataName. A metadata field called
// DataName is left out, as are private fields, whose names start with "_".
func Variables(tr *seismat.Trace) []mat5.Var {
	vars := make([]mat5.Var, 0, tr.Stats.Len()+1)
	tr.Stats.Each(func(key string, value any) bool {
		if key != DataName && !strings.HasPrefix(key, "_") {
			vars = append(vars, mat5.Var{Name: key, Value: seismat.Render(value)})
		}
		return true
	})
	return append(vars, mat5.Var{Name: DataName, Value: tr.Data})
}

// Convert writes tr to the MAT file path, replacing it if it exists.
func Convert(tr *seismat.Trace, path string, compress bool) error {
	if tr == nil {
		return seismat.NewError("nil trace", "Convert")
	}
	if !seismat.ValidSamples(tr.Data) {
		return seismat.NewError(fmt.Sprintf("trace %s: unsupported sample array type %T", tr.ID(), tr.Data), "Convert")
	}
	var opts []mat5.Option
	if compress {
		opts = append(opts, mat5.WithCompression(zlib.DefaultCompression))
	}
	if err := mat5.WriteFile(path, Variables(tr), opts...); err != nil {
		return seismat.ErrDecorate(err, "Convert")
	}
	return nil
}

// Stream2MatFile writes every trace in st to its own MAT file, named by
// FileName, in order. Traces with the same id end up in the same file, so
// the last one wins. It stops at the first error and returns it. Files
// written before the error are left in place. An empty stream does nothing.
func Stream2MatFile(st seismat.Stream, opts ...Option) error {
	o := &options{prefix: DefaultPrefix}
	for _, f := range opts {
		f(o)
	}
	log := logger.Or(o.log)
	for i, tr := range st {
		if tr == nil {
			return seismat.NewError(fmt.Sprintf("trace %d is nil", i), "Stream2MatFile")
		}
		path := FileName(o.prefix, tr)
		if o.dir != "" {
			path = filepath.Join(o.dir, path)
		}
		if err := Convert(tr, path, o.compress); err != nil {
			return seismat.ErrDecorate(err, "Stream2MatFile")
		}
		log.WithFields(logrus.Fields{"trace": tr.ID(), "file": path, "npts": tr.Len()}).Debug("wrote MAT file")
		if !o.plot {
			continue
		}
		png := strings.TrimSuffix(path, ".mat") + ".png"
		if err := wplot.Trace(tr, png); err != nil {
			return seismat.ErrDecorate(err, "Stream2MatFile")
		}
		log.WithFields(logrus.Fields{"trace": tr.ID(), "file": png}).Debug("wrote plot")
	}
	return nil
}
