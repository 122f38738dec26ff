/*
 * encode.go, part of seismat.
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
	"math"
	"math/bits"
	"time"

	"github.com/rmera/seismat"
)

const dataOffset = 64 //fixed header plus blockette 1000, rounded up.

// Encode writes tr to w as big-endian miniSEED records of recLen bytes
// (a power of 2 between 128 and 2^20). Samples are stored uncompressed:
// []int16 as INT16, []int32 as INT32, []float32 as FLOAT32 and []float64
// as FLOAT64. The identifier fields, "starttime" (time.Time) and
// "sampling_rate" (float64) are taken from the trace metadata, as well as
// the data quality from the nested "mseed" stats, if present.
func Encode(w io.Writer, tr *seismat.Trace, recLen int) error {
	if recLen < 1<<minRecordExp || recLen > 1<<maxRecordExp || bits.OnesCount(uint(recLen)) != 1 {
		return newError(fmt.Sprintf("bad record length %d", recLen), "", -1, "Encode")
	}
	var enc Encoding
	var size int
	switch tr.Data.(type) {
	case []int16:
		enc, size = Int16, 2
	case []int32:
		enc, size = Int32, 4
	case []float32:
		enc, size = Float32, 4
	case []float64:
		enc, size = Float64, 8
	default:
		return newError(fmt.Sprintf("%s for %T", UnsupportedCodec, tr.Data), "", -1, "Encode")
	}
	rate := 0.0
	if v, ok := tr.Stats.Get("sampling_rate"); ok {
		rate, _ = v.(float64)
	}
	factor, mult, err := rateFactors(rate)
	if err != nil {
		return errDecorate(err, "Encode")
	}
	start := time.Unix(0, 0).UTC()
	if v, ok := tr.Stats.Get("starttime"); ok {
		if t, ok := v.(time.Time); ok {
			start = t.UTC()
		}
	}
	quality := byte('D')
	if v, ok := tr.Stats.Get("mseed"); ok {
		if m, ok := v.(*seismat.Stats); ok {
			if q := m.Text("dataquality"); len(q) == 1 {
				quality = q[0]
			}
		}
	}
	//the sample count field is 16 bits wide.
	perRecord := min((recLen-dataOffset)/size, math.MaxUint16)
	total := tr.Len()
	o := binary.BigEndian
	for seq, first := 1, 0; seq == 1 || first < total; seq++ {
		n := min(perRecord, total-first)
		rec := &Record{
			Seq:      fmt.Sprintf("%06d", seq%1000000),
			Quality:  quality,
			Network:  tr.Stats.Network(),
			Station:  tr.Stats.Station(),
			Location: tr.Stats.Location(),
			Channel:  tr.Stats.Channel(),
			Start:    start,
			NSamples: n,
			Encoding: enc,
			Length:   recLen,
		}
		if rate > 0 {
			rec.Start = start.Add(seconds(float64(first) / rate))
		}
		b := make([]byte, recLen)
		putHeader(b, rec, factor, mult)
		putSamples(b[dataOffset:], tr.Data, first, n, o)
		if _, err := w.Write(b); err != nil {
			return newError(err.Error(), "", -1, "Write", "Encode")
		}
		first += n
	}
	return nil
}

// putHeader fills the fixed header and blockette 1000 of a big-endian record.
func putHeader(b []byte, rec *Record, factor, mult int16) {
	o := binary.BigEndian
	copy(b[0:6], fmt.Sprintf("%6s", rec.Seq))
	b[6] = rec.Quality
	b[7] = ' '
	copy(b[8:13], fmt.Sprintf("%-5.5s", rec.Station))
	copy(b[13:15], fmt.Sprintf("%-2.2s", rec.Location))
	copy(b[15:18], fmt.Sprintf("%-3.3s", rec.Channel))
	copy(b[18:20], fmt.Sprintf("%-2.2s", rec.Network))
	t := rec.Start
	o.PutUint16(b[20:], uint16(t.Year()))
	o.PutUint16(b[22:], uint16(t.YearDay()))
	b[24], b[25], b[26] = byte(t.Hour()), byte(t.Minute()), byte(t.Second())
	o.PutUint16(b[28:], uint16(t.Nanosecond()/100000))
	o.PutUint16(b[30:], uint16(rec.NSamples))
	o.PutUint16(b[32:], uint16(factor))
	o.PutUint16(b[34:], uint16(mult))
	b[36] = activityTimeCorrApplied
	b[39] = 1 //one blockette
	o.PutUint16(b[44:], dataOffset)
	o.PutUint16(b[46:], fixedHeaderLen)
	//blockette 1000
	o.PutUint16(b[48:], 1000)
	o.PutUint16(b[50:], 0)
	b[52] = byte(rec.Encoding)
	b[53] = 1 //big endian
	b[54] = byte(bits.TrailingZeros(uint(rec.Length)))
}

func putSamples(b []byte, data any, first, n int, o binary.ByteOrder) {
	switch d := data.(type) {
	case []int16:
		for i, v := range d[first : first+n] {
			o.PutUint16(b[2*i:], uint16(v))
		}
	case []int32:
		for i, v := range d[first : first+n] {
			o.PutUint32(b[4*i:], uint32(v))
		}
	case []float32:
		for i, v := range d[first : first+n] {
			o.PutUint32(b[4*i:], math.Float32bits(v))
		}
	case []float64:
		for i, v := range d[first : first+n] {
			o.PutUint64(b[8*i:], math.Float64bits(v))
		}
	}
}

// rateFactors returns a sample rate factor and multiplier for rate.
func rateFactors(rate float64) (int16, int16, error) {
	if rate == 0 {
		return 0, 0, nil
	}
	if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, 0, newError(fmt.Sprintf("bad sampling rate %v", rate), "", -1, "rateFactors")
	}
	if rate >= 1 && rate <= math.MaxInt16 && rate == math.Trunc(rate) {
		return int16(rate), 1, nil
	}
	if rate < 1 {
		if p := 1 / rate; p <= math.MaxInt16 && math.Abs(p-math.Round(p)) < 1e-9 {
			return -int16(math.Round(p)), 1, nil
		}
	}
	for _, m := range []float64{10, 100, 1000, 10000} {
		f := rate * m
		if f <= math.MaxInt16 && math.Abs(f-math.Round(f)) < 1e-9 {
			return int16(math.Round(f)), -int16(m), nil
		}
	}
	return 0, 0, newError(fmt.Sprintf("sampling rate %v can't be expressed as factor and multiplier", rate), "", -1, "rateFactors")
}
