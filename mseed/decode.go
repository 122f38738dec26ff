/*
 * decode.go, part of seismat.
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

package mseed

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"reflect"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rmera/seismat"
	"github.com/rmera/seismat/internal/logger"
)

// FormatName is stored under the "_format" key of the decoded traces.
const FormatName = "MSEED"

// Decoder turns miniSEED data into a seismat.Stream. The zero value is
// ready to use.
type Decoder struct {
	//Log gets the warnings (integration constant mismatches). The
	//shared logger is used if nil.
	Log *logrus.Logger
}

var _ seismat.StreamDecoder = Decoder{}

// Decode decodes with a zero Decoder.
func Decode(r io.Reader, name string) (seismat.Stream, error) {
	return Decoder{}.Decode(r, name)
}

// ReadFile decodes the miniSEED file path.
func ReadFile(path string) (seismat.Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(err.Error(), path, -1, "os.Open", "ReadFile")
	}
	defer f.Close()
	st, err := Decode(f, path)
	if err != nil {
		return nil, errDecorate(err, "ReadFile")
	}
	return st, nil
}

// segment collects contiguous records of one channel.
type segment struct {
	first    *Record
	last     *Record
	nrec     int
	npts     int
	parts    []any
	expected time.Time //time the next contiguous record should start at
}

// Decode reads all the records in r and returns one trace per run of
// contiguous records with the same id, sample rate and sample type. Records
// are contiguous if the next one starts within half a sample of where
// the previous one ended. Traces keep the order in which they started.
func (D Decoder) Decode(r io.Reader, name string) (seismat.Stream, error) {
	log := logger.Or(D.Log)
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, newError(err.Error(), name, -1, "io.ReadAll", "Decode")
	}
	var segs []*segment
	open := make(map[string][]*segment) //segments of each id
	for off := 0; off < len(b); {
		rec, err := ParseHeader(b[off:])
		if err != nil {
			return nil, decorateAt(err, name, off)
		}
		warn := func(msg string) {
			log.WithFields(logrus.Fields{"file": name, "offset": off}).Warn(msg)
		}
		if err := rec.decodeData(b[off:], warn); err != nil {
			return nil, decorateAt(err, name, off)
		}
		off += rec.Length
		if rec.NSamples == 0 {
			log.WithFields(logrus.Fields{"file": name, "id": rec.ID()}).Debug("skipping record without samples")
			continue
		}
		s := findSegment(open[rec.ID()], rec)
		if s == nil {
			s = &segment{first: rec}
			segs = append(segs, s)
			open[rec.ID()] = append(open[rec.ID()], s)
		}
		s.add(rec)
	}
	st := make(seismat.Stream, 0, len(segs))
	for _, s := range segs {
		tr, err := s.trace(len(b))
		if err != nil {
			return nil, newError(err.Error(), name, -1, "Decode")
		}
		st = append(st, tr)
	}
	log.WithFields(logrus.Fields{"file": name, "traces": len(st)}).Debug("decoded miniSEED")
	return st, nil
}

func decorateAt(err error, name string, off int) error {
	if e, ok := err.(*Error); ok {
		e.filename = name
		e.offset = off
		e.Decorate("Decode")
		return e
	}
	return newError(err.Error(), name, off, "Decode")
}

// findSegment returns the most recent of segs that rec continues, or nil.
func findSegment(segs []*segment, rec *Record) *segment {
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].accepts(rec) {
			return segs[i]
		}
	}
	return nil
}

func (s *segment) accepts(rec *Record) bool {
	if rec.Rate != s.first.Rate || reflect.TypeOf(rec.Data) != reflect.TypeOf(s.first.Data) {
		return false
	}
	if rec.Rate == 0 {
		return false
	}
	tol := seconds(0.5 / rec.Rate)
	gap := rec.Start.Sub(s.expected)
	return gap <= tol && gap >= -tol
}

func (s *segment) add(rec *Record) {
	s.last = rec
	s.nrec++
	s.npts += rec.NSamples
	s.parts = append(s.parts, rec.Data)
	if rec.Rate > 0 {
		s.expected = rec.Start.Add(seconds(float64(rec.NSamples) / rec.Rate))
	}
}

func (s *segment) trace(filesize int) (*seismat.Trace, error) {
	data, err := concat(s.parts, s.npts)
	if err != nil {
		return nil, err
	}
	f := s.first
	end := f.Start
	delta := 0.0
	if f.Rate > 0 {
		delta = 1 / f.Rate
		end = f.Start.Add(seconds(float64(s.npts-1) / f.Rate))
	}
	byteorder := ">"
	if f.WordOrder == binary.LittleEndian {
		byteorder = "<"
	}
	stats := seismat.NewStats(
		"network", f.Network,
		"station", f.Station,
		"location", f.Location,
		"channel", f.Channel,
		"starttime", f.Start,
		"endtime", end,
		"sampling_rate", f.Rate,
		"delta", delta,
		"npts", s.npts,
		"calib", 1.0,
		"_format", FormatName,
		"mseed", seismat.NewStats(
			"dataquality", string(f.Quality),
			"number_of_records", s.nrec,
			"encoding", f.Encoding.String(),
			"byteorder", byteorder,
			"record_length", f.Length,
			"filesize", filesize,
		),
	)
	return seismat.NewTrace(stats, data)
}

func concat(parts []any, n int) (any, error) {
	switch parts[0].(type) {
	case []int16:
		return join[int16](parts, n), nil
	case []int32:
		return join[int32](parts, n), nil
	case []float32:
		return join[float32](parts, n), nil
	case []float64:
		return join[float64](parts, n), nil
	}
	return nil, fmt.Errorf("unexpected sample type %T", parts[0])
}

func join[T int16 | int32 | float32 | float64](parts []any, n int) []T {
	ret := make([]T, 0, n)
	for _, p := range parts {
		ret = append(ret, p.([]T)...)
	}
	return ret
}
