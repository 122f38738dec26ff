/*
 * steim.go, part of seismat.
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
)

// integrationWarning is returned, together with the samples, when the
// last decoded sample doesn't match the reverse integration constant.
// The samples are usually fine, so it is only worth a warning.
type integrationWarning struct {
	last, xn int32
}

func (w integrationWarning) Error() string {
	return fmt.Sprintf("last sample %d differs from reverse integration constant %d", w.last, w.xn)
}

// signExtend interprets the lowest bits of v as a two's complement number.
func signExtend(v uint32, bits uint) int32 {
	return int32(v<<(32-bits)) >> (32 - bits)
}

// unpack appends to d the n values of the given bit width packed in the
// lowest n*bits bits of w, most significant first.
func unpack(d []int32, w uint32, n int, bits uint) []int32 {
	mask := uint32(1)<<bits - 1
	for i := n - 1; i >= 0; i-- {
		d = append(d, signExtend((w>>(uint(i)*bits))&mask, bits))
	}
	return d
}

// decodeSteim decodes nsamp samples from the Steim1 or Steim2 frames in buf.
// Each 64-byte frame starts with a word of 2-bit codes, one for each of
// its 16 words. Words 1 and 2 of the first frame are the forward and
// reverse integration constants: the first sample and the last one.
func decodeSteim(buf []byte, nsamp int, order binary.ByteOrder, steim2 bool) ([]int32, error) {
	if nsamp == 0 {
		return []int32{}, nil
	}
	if len(buf) < frameLen {
		return nil, newError(fmt.Sprintf("%s: %d bytes, less than a frame", BadSteim, len(buf)), "", -1, "decodeSteim")
	}
	diffs := make([]int32, 0, nsamp+7)
	var x0, xn int32
	for f := 0; (f+1)*frameLen <= len(buf) && len(diffs) < nsamp; f++ {
		frame := buf[f*frameLen : (f+1)*frameLen]
		ctrl := order.Uint32(frame)
		for w := 1; w < 16; w++ {
			word := order.Uint32(frame[4*w:])
			if f == 0 && w == 1 {
				x0 = int32(word)
				continue
			}
			if f == 0 && w == 2 {
				xn = int32(word)
				continue
			}
			code := (ctrl >> (30 - 2*uint(w))) & 3
			var err error
			diffs, err = steimWord(diffs, word, code, steim2)
			if err != nil {
				return nil, newError(fmt.Sprintf("%s: frame %d word %d: %s", BadSteim, f, w, err), "", -1, "decodeSteim")
			}
		}
	}
	if len(diffs) < nsamp {
		return nil, newError(fmt.Sprintf("%s: %d differences for %d samples", NotEnoughData, len(diffs), nsamp), "", -1, "decodeSteim")
	}
	//the first difference refers to the last sample of the previous record.
	samples := make([]int32, nsamp)
	samples[0] = x0
	for i := 1; i < nsamp; i++ {
		samples[i] = samples[i-1] + diffs[i]
	}
	if samples[nsamp-1] != xn {
		return samples, integrationWarning{last: samples[nsamp-1], xn: xn}
	}
	return samples, nil
}

func steimWord(d []int32, word, code uint32, steim2 bool) ([]int32, error) {
	switch code {
	case 0:
		return d, nil //no data (or header info)
	case 1:
		return unpack(d, word, 4, 8), nil
	}
	if !steim2 {
		if code == 2 {
			return unpack(d, word, 2, 16), nil
		}
		return append(d, int32(word)), nil
	}
	dnib := word >> 30
	if code == 2 {
		switch dnib {
		case 1:
			return unpack(d, word, 1, 30), nil
		case 2:
			return unpack(d, word, 2, 15), nil
		case 3:
			return unpack(d, word, 3, 10), nil
		}
		return nil, fmt.Errorf("code 2 with dnib %d", dnib)
	}
	switch dnib {
	case 0:
		return unpack(d, word, 5, 6), nil
	case 1:
		return unpack(d, word, 6, 5), nil
	case 2:
		return unpack(d, word, 7, 4), nil
	}
	return nil, fmt.Errorf("code 3 with dnib %d", dnib)
}
