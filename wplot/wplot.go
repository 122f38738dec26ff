/*
 * wplot.go, part of seismat.
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

// Package wplot draws waveform plots of seismat traces.
package wplot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/rmera/seismat"
)

// Size of the saved plots.
var (
	Width  = 8 * vg.Inch
	Height = 3 * vg.Inch
)

// Waveform returns a line plot of the samples of tr, titled with the trace
// id. The X axis is in seconds since the first sample if the trace has a
// positive "sampling_rate", and in samples otherwise.
func Waveform(tr *seismat.Trace) (*plot.Plot, error) {
	y := tr.Float64s()
	if len(y) == 0 {
		return nil, seismat.NewError(fmt.Sprintf("trace %s has no samples to plot", tr.ID()), "Waveform")
	}
	rate := 0.0
	if v, ok := tr.Stats.Get("sampling_rate"); ok {
		rate, _ = v.(float64)
	}
	pts := make(plotter.XYs, len(y))
	for i, v := range y {
		pts[i].X = float64(i)
		if rate > 0 {
			pts[i].X /= rate
		}
		pts[i].Y = v
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = tr.ID()
	p.X.Label.Text = "Samples"
	if rate > 0 {
		p.X.Label.Text = "Time (s)"
	}
	p.Y.Label.Text = "Counts"
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, seismat.NewError(err.Error(), "Waveform")
	}
	l.LineStyle.Color = color.RGBA{B: 180, A: 255}
	l.LineStyle.Width = vg.Points(0.5)
	p.Add(l)
	return p, nil
}

// Trace saves the Waveform plot of tr to path. The image format is taken
// from the extension of path (png, svg, pdf...).
func Trace(tr *seismat.Trace, path string) error {
	p, err := Waveform(tr)
	if err != nil {
		return seismat.ErrDecorate(err, "Trace")
	}
	if err := p.Save(Width, Height, path); err != nil {
		return seismat.NewError(err.Error(), "Trace")
	}
	return nil
}
