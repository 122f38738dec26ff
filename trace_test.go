/*
 * trace_test.go, part of seismat.
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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bgld(t *testing.T, data any) *Trace {
	t.Helper()
	st := NewStats(
		"network", "BW",
		"station", "BGLD",
		"location", "",
		"channel", "EH",
		"starttime", time.Date(2010, 2, 6, 0, 0, 0, 0, time.UTC),
		"endtime", time.Date(2010, 2, 6, 0, 0, 0, 15000000, time.UTC),
		"sampling_rate", 200.0,
	)
	tr, err := NewTrace(st, data)
	require.NoError(t, err)
	return tr
}

func TestStatsOrder(Te *testing.T) {
	s := NewStats("b", 1, "a", 2)
	s.Set("c", 3)
	s.Set("b", 10)
	assert.Equal(Te, []string{"b", "a", "c"}, s.Keys())
	v, ok := s.Get("b")
	assert.True(Te, ok)
	assert.Equal(Te, 10, v)

	s.Delete("a")
	s.Delete("missing")
	assert.Equal(Te, []string{"b", "c"}, s.Keys())
	assert.Equal(Te, 2, s.Len())
	assert.False(Te, s.Has("a"))

	var visited []string
	s.Each(func(k string, _ any) bool {
		visited = append(visited, k)
		return false
	})
	assert.Equal(Te, []string{"b"}, visited)
}

func TestStatsCopy(Te *testing.T) {
	nested := NewStats("encoding", "STEIM1")
	s := NewStats("network", "BW", "mseed", nested)
	c := s.Copy()
	c.Set("network", "GR")
	m, _ := c.Get("mseed")
	m.(*Stats).Set("encoding", "INT32")
	assert.Equal(Te, "BW", s.Network())
	assert.Equal(Te, "STEIM1", nested.Text("encoding"))
}

func TestStatsNil(Te *testing.T) {
	var s *Stats
	assert.Equal(Te, 0, s.Len())
	assert.Equal(Te, "", s.Network())
	assert.Nil(Te, s.Keys())
}

func TestTrace(Te *testing.T) {
	tr := bgld(Te, []int32{1, -2, 3, 4})
	assert.Equal(Te, "BW.BGLD..EH", tr.ID())
	assert.Equal(Te, 4, tr.Len())
	assert.Equal(Te, []float64{1, -2, 3, 4}, tr.Float64s())
	assert.Equal(Te, "BW.BGLD..EH | 2010-02-06T00:00:00.000000Z - 2010-02-06T00:00:00.015000Z | 200.0 Hz, 4 samples", tr.String())

	sum := tr.Summary()
	assert.Equal(Te, -2.0, sum.Min)
	assert.Equal(Te, 4.0, sum.Max)
	assert.InDelta(Te, 1.5, sum.Mean, 1e-12)
	assert.InDelta(Te, math.Sqrt(7), sum.Std, 1e-12)
}

func TestTraceSummaryEdges(Te *testing.T) {
	assert.True(Te, math.IsNaN(bgld(Te, []float32{}).Summary().Mean))
	one := bgld(Te, []int16{7}).Summary()
	assert.Equal(Te, Summary{7, 7, 7, 0}, one)
}

func TestNewTraceRejects(Te *testing.T) {
	_, err := NewTrace(nil, []string{"x"})
	require.Error(Te, err)
	_, ok := err.(Error)
	assert.True(Te, ok)

	tr, err := NewTrace(nil, []uint8{})
	require.NoError(Te, err)
	assert.Equal(Te, "...", tr.ID())
}

func TestStreamSelect(Te *testing.T) {
	a := bgld(Te, []int32{1})
	b := bgld(Te, []int32{2})
	b.Stats.Set("channel", "EHZ")
	var st Stream
	st = st.Append(a, b)
	assert.Equal(Te, 2, st.Len())

	sel, err := st.Select("BW.BGLD..EH?")
	require.NoError(Te, err)
	require.Len(Te, sel, 1)
	assert.Same(Te, b, sel[0])

	all, err := st.Select("")
	require.NoError(Te, err)
	assert.Len(Te, all, 2)

	_, err = st.Select("[")
	assert.Error(Te, err)

	st = st.Append(nil)
	all, err = st.Select("")
	require.NoError(Te, err)
	assert.Len(Te, all, 2)
	sel, err = st.Select("*")
	require.NoError(Te, err)
	assert.Len(Te, sel, 2)
}

func TestErrDecorate(Te *testing.T) {
	err := ErrDecorate(NewError("boom", "inner"), "outer")
	e, ok := err.(*CError)
	require.True(Te, ok)
	assert.Equal(Te, "inner <- outer", e.Trace())
	assert.True(Te, e.Critical())
	assert.Nil(Te, ErrDecorate(nil, "x"))
}
