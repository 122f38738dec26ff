/*
 * trace.go, part of seismat.
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

package seismat

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Trace is one continuous time series of a single channel, plus
// its metadata.
type Trace struct {
	Stats *Stats
	//Data is the sample array in its native type. It is one of
	//[]int8, []uint8, []int16, []uint16, []int32, []uint32,
	//[]int64, []uint64, []float32 or []float64.
	Data any
}

// NewTrace returns a Trace with the given metadata and samples. A nil stats
// is replaced by an empty one. It returns an error if data is not a
// supported sample array.
func NewTrace(stats *Stats, data any) (*Trace, error) {
	if !ValidSamples(data) {
		return nil, errorf("NewTrace", "unsupported sample array type %T", data)
	}
	if stats == nil {
		stats = NewStats()
	}
	return &Trace{Stats: stats, Data: data}, nil
}

// ID returns the NET.STA.LOC.CHA identifier of the trace.
func (T *Trace) ID() string {
	s := T.Stats
	return strings.Join([]string{s.Network(), s.Station(), s.Location(), s.Channel()}, ".")
}

// Len returns the number of samples in the trace.
func (T *Trace) Len() int {
	return SampleLen(T.Data)
}

// Float64s returns a float64 copy of the samples. The trace is not modified.
func (T *Trace) Float64s() []float64 {
	ret, _ := AsFloat64s(T.Data)
	return ret
}

// Summary holds basic statistics of the samples of a trace.
type Summary struct {
	Min, Max  float64
	Mean, Std float64
}

// Summary returns minimum, maximum, mean and standard deviation of the
// samples. All are NaN for an empty trace.
func (T *Trace) Summary() Summary {
	d := T.Float64s()
	if len(d) == 0 {
		nan := math.NaN()
		return Summary{nan, nan, nan, nan}
	}
	mean, std := stat.MeanStdDev(d, nil)
	if len(d) == 1 {
		std = 0
	}
	return Summary{Min: floats.Min(d), Max: floats.Max(d), Mean: mean, Std: std}
}

// String returns a one-line description of the trace:
// "BW.BGLD..EH | 2010-02-06T00:00:00.000000Z - ... | 200.0 Hz, 1000 samples"
// The time and rate fields are only included if present.
func (T *Trace) String() string {
	ret := T.ID()
	if T.Stats.Has("starttime") || T.Stats.Has("endtime") {
		ret += " | " + T.Stats.Text("starttime") + " - " + T.Stats.Text("endtime")
	}
	ret += " | "
	if T.Stats.Has("sampling_rate") {
		ret += T.Stats.Text("sampling_rate") + " Hz, "
	}
	return ret + fmt.Sprintf("%d samples", T.Len())
}

// ValidSamples returns true if d is a supported sample array.
func ValidSamples(d any) bool {
	switch d.(type) {
	case []int8, []uint8, []int16, []uint16, []int32, []uint32,
		[]int64, []uint64, []float32, []float64:
		return true
	}
	return false
}

// SampleLen returns the length of the sample array d, or 0 if d is not one.
func SampleLen(d any) int {
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

// AsFloat64s returns a float64 copy of the sample array d.
func AsFloat64s(d any) ([]float64, error) {
	switch s := d.(type) {
	case []int8:
		return convert(s), nil
	case []uint8:
		return convert(s), nil
	case []int16:
		return convert(s), nil
	case []uint16:
		return convert(s), nil
	case []int32:
		return convert(s), nil
	case []uint32:
		return convert(s), nil
	case []int64:
		return convert(s), nil
	case []uint64:
		return convert(s), nil
	case []float32:
		return convert(s), nil
	case []float64:
		return append([]float64(nil), s...), nil
	}
	return nil, errorf("AsFloat64s", "unsupported sample array type %T", d)
}

type number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func convert[N number](s []N) []float64 {
	ret := make([]float64, len(s))
	for i, v := range s {
		ret[i] = float64(v)
	}
	return ret
}
