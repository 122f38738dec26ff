/*
 * record.go, part of seismat.
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
	"math"
	"strings"
	"time"
)

// Encoding is the data encoding format of a record (blockette 1000).
type Encoding uint8

const (
	ASCII   Encoding = 0
	Int16   Encoding = 1
	Int24   Encoding = 2
	Int32   Encoding = 3
	Float32 Encoding = 4
	Float64 Encoding = 5
	Steim1  Encoding = 10
	Steim2  Encoding = 11
)

func (E Encoding) String() string {
	switch E {
	case ASCII:
		return "ASCII"
	case Int16:
		return "INT16"
	case Int24:
		return "INT24"
	case Int32:
		return "INT32"
	case Float32:
		return "FLOAT32"
	case Float64:
		return "FLOAT64"
	case Steim1:
		return "STEIM1"
	case Steim2:
		return "STEIM2"
	}
	return fmt.Sprintf("ENCODING(%d)", uint8(E))
}

const (
	fixedHeaderLen = 48
	frameLen       = 64
	minRecordExp   = 7 //128 bytes
	maxRecordExp   = 20

	activityTimeCorrApplied = 0x02
)

// Record is one miniSEED record: the fixed header, the blockettes
// this package understands and the decoded samples.
type Record struct {
	Seq      string
	Quality  byte
	Network  string
	Station  string
	Location string
	Channel  string
	//Start is the time of the first sample, with the time correction and
	//the microseconds of blockette 1001 already applied.
	Start    time.Time
	NSamples int
	Rate     float64

	ActivityFlags byte
	IOFlags       byte
	QualityFlags  byte
	TimeCorr      int32 //in units of 0.0001 s

	DataOffset int
	Encoding   Encoding
	//HeaderOrder is the byte order of the header, WordOrder the one of
	//the data, from blockette 1000.
	HeaderOrder binary.ByteOrder
	WordOrder   binary.ByteOrder
	Length      int
	Microsec    int8
	Frames      int

	//Data holds the samples, []int16, []int32, []float32 or []float64.
	Data any
}

// ID returns the NET.STA.LOC.CHA identifier of the record.
func (R *Record) ID() string {
	return strings.Join([]string{R.Network, R.Station, R.Location, R.Channel}, ".")
}

// End returns the time of the last sample of the record.
func (R *Record) End() time.Time {
	if R.NSamples == 0 || R.Rate == 0 {
		return R.Start
	}
	return R.Start.Add(seconds(float64(R.NSamples-1) / R.Rate))
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// headerOrder detects the byte order of the fixed header from the
// start time, which must have a plausible year and day.
func headerOrder(b []byte) (binary.ByteOrder, bool) {
	for _, o := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		year, day := o.Uint16(b[20:]), o.Uint16(b[22:])
		if year >= 1900 && year <= 2100 && day >= 1 && day <= 366 {
			return o, true
		}
	}
	return nil, false
}

// ParseHeader parses the fixed section of the data header and the blockettes of
// the record at the start of b. It does not decode the samples. b must
// hold at least the fixed header, the blockettes and, to be decoded later,
// the whole record.
func ParseHeader(b []byte) (*Record, error) {
	if len(b) < fixedHeaderLen {
		return nil, newError(fmt.Sprintf("%s: %d bytes", BadHeader, len(b)), "", -1, "ParseHeader")
	}
	if !strings.ContainsRune("DRQM", rune(b[6])) {
		return nil, newError(fmt.Sprintf("%s: quality indicator %q", BadHeader, b[6]), "", -1, "ParseHeader")
	}
	order, ok := headerOrder(b)
	if !ok {
		return nil, newError(BadHeader+": implausible start time", "", -1, "ParseHeader")
	}
	R := &Record{
		Seq:           strings.TrimSpace(string(b[0:6])),
		Quality:       b[6],
		Station:       strings.TrimSpace(string(b[8:13])),
		Location:      strings.TrimSpace(string(b[13:15])),
		Channel:       strings.TrimSpace(string(b[15:18])),
		Network:       strings.TrimSpace(string(b[18:20])),
		NSamples:      int(order.Uint16(b[30:])),
		ActivityFlags: b[36],
		IOFlags:       b[37],
		QualityFlags:  b[38],
		TimeCorr:      int32(order.Uint32(b[40:])),
		DataOffset:    int(order.Uint16(b[44:])),
		HeaderOrder:   order,
		WordOrder:     order,
	}
	R.Rate = sampleRate(int16(order.Uint16(b[32:])), int16(order.Uint16(b[34:])))
	start := btime(b[20:30], order)

	nblk := int(b[39])
	found1000 := false
	off := int(order.Uint16(b[46:]))
	for i := 0; i < nblk && off != 0; i++ {
		if off < fixedHeaderLen || off+4 > len(b) {
			return nil, newError(fmt.Sprintf("%s: blockette at %d", BadHeader, off), "", -1, "ParseHeader")
		}
		btype := order.Uint16(b[off:])
		next := int(order.Uint16(b[off+2:]))
		switch btype {
		case 1000:
			if off+8 > len(b) {
				return nil, newError(BadHeader+": truncated blockette 1000", "", -1, "ParseHeader")
			}
			R.Encoding = Encoding(b[off+4])
			if b[off+5] == 0 {
				R.WordOrder = binary.LittleEndian
			} else {
				R.WordOrder = binary.BigEndian
			}
			exp := int(b[off+6])
			if exp < minRecordExp || exp > maxRecordExp {
				return nil, newError(fmt.Sprintf("%s: record length 2^%d", BadHeader, exp), "", -1, "ParseHeader")
			}
			R.Length = 1 << exp
			found1000 = true
		case 1001:
			if off+8 > len(b) {
				return nil, newError(BadHeader+": truncated blockette 1001", "", -1, "ParseHeader")
			}
			R.Microsec = int8(b[off+5])
			R.Frames = int(b[off+7])
		}
		if next != 0 && next <= off {
			break //loops back, we are done.
		}
		off = next
	}
	if !found1000 {
		return nil, newError(NoBlockette1000, "", -1, "ParseHeader")
	}
	if R.DataOffset > R.Length || (R.NSamples > 0 && R.DataOffset < fixedHeaderLen) {
		return nil, newError(fmt.Sprintf("%s: data offset %d", BadHeader, R.DataOffset), "", -1, "ParseHeader")
	}
	start = start.Add(time.Duration(R.Microsec) * time.Microsecond)
	if R.ActivityFlags&activityTimeCorrApplied == 0 && R.TimeCorr != 0 {
		start = start.Add(time.Duration(R.TimeCorr) * 100 * time.Microsecond)
	}
	R.Start = start
	return R, nil
}

// btime decodes a SEED BTIME structure.
func btime(b []byte, order binary.ByteOrder) time.Time {
	year := int(order.Uint16(b))
	day := int(order.Uint16(b[2:]))
	hour, min, sec := int(b[4]), int(b[5]), int(b[6])
	fract := int(order.Uint16(b[8:])) //0.0001 s
	return time.Date(year, 1, day, hour, min, sec, fract*100000, time.UTC)
}

// sampleRate applies the SEED rules for the sample rate factor and multiplier.
func sampleRate(factor, mult int16) float64 {
	f, m := float64(factor), float64(mult)
	switch {
	case factor == 0 || mult == 0:
		return 0
	case factor > 0 && mult > 0:
		return f * m
	case factor > 0 && mult < 0:
		return -f / m
	case factor < 0 && mult > 0:
		return -m / f
	}
	return 1 / (f * m)
}

// decodeData decodes the samples of R from the complete record b.
func (R *Record) decodeData(b []byte, warn func(string)) error {
	if len(b) < R.Length {
		return newError(fmt.Sprintf("%s: %d of %d bytes", ShortRecord, len(b), R.Length), "", -1, "decodeData")
	}
	data := b[R.DataOffset:R.Length]
	n := R.NSamples
	need := func(size int) error {
		if len(data) < n*size {
			return newError(fmt.Sprintf("%s: %d samples in %d bytes", NotEnoughData, n, len(data)), "", -1, "decodeData")
		}
		return nil
	}
	o := R.WordOrder
	switch R.Encoding {
	case Int16:
		if err := need(2); err != nil {
			return err
		}
		d := make([]int16, n)
		for i := range d {
			d[i] = int16(o.Uint16(data[2*i:]))
		}
		R.Data = d
	case Int32:
		if err := need(4); err != nil {
			return err
		}
		d := make([]int32, n)
		for i := range d {
			d[i] = int32(o.Uint32(data[4*i:]))
		}
		R.Data = d
	case Float32:
		if err := need(4); err != nil {
			return err
		}
		d := make([]float32, n)
		for i := range d {
			d[i] = math.Float32frombits(o.Uint32(data[4*i:]))
		}
		R.Data = d
	case Float64:
		if err := need(8); err != nil {
			return err
		}
		d := make([]float64, n)
		for i := range d {
			d[i] = math.Float64frombits(o.Uint64(data[8*i:]))
		}
		R.Data = d
	case Steim1, Steim2:
		d, err := decodeSteim(data, n, o, R.Encoding == Steim2)
		if err != nil {
			if w, ok := err.(integrationWarning); ok {
				warn(fmt.Sprintf("%s: %s", R.ID(), w))
			} else {
				return errDecorate(err, "decodeData")
			}
		}
		R.Data = d
	default:
		return newError(fmt.Sprintf("%s %s", UnsupportedCodec, R.Encoding), "", -1, "decodeData")
	}
	return nil
}
