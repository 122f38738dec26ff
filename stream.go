/*
 * stream.go, part of seismat.
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
	"path"
	"strings"
)

// Stream is an ordered collection of traces. The order is kept from
// the input, but nothing in the library depends on it.
type Stream []*Trace

// Len returns the number of traces in the stream.
func (S Stream) Len() int { return len(S) }

// Append adds traces to the end of the stream and returns the result.
func (S Stream) Append(tr ...*Trace) Stream {
	return append(S, tr...)
}

// Select returns the traces whose ID matches pattern, which uses the
// syntax of path.Match ("BW.*..EH?"). An empty pattern matches everything.
// Nil traces are never selected.
func (S Stream) Select(pattern string) (Stream, error) {
	var ret Stream
	for _, tr := range S {
		if tr == nil {
			continue
		}
		if pattern == "" {
			ret = append(ret, tr)
			continue
		}
		ok, err := path.Match(pattern, tr.ID())
		if err != nil {
			return nil, errorf("Select", "bad pattern %q: %s", pattern, err)
		}
		if ok {
			ret = append(ret, tr)
		}
	}
	return ret, nil
}

func (S Stream) String() string {
	lines := make([]string, 0, len(S)+1)
	lines = append(lines, fmt.Sprintf("%d Trace(s) in Stream:", len(S)))
	for _, tr := range S {
		lines = append(lines, tr.String())
	}
	return strings.Join(lines, "\n")
}
