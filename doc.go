/*
 * doc.go, part of seismat.
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

/*
Package seismat holds the waveform data model of the seismat library:
traces, the streams that collect them, and the metadata attached to each trace.

	**seismat Capabilities**

	Reads miniSEED (SEED 2.x) records: int16, int32, float32, float64,
	Steim1 and Steim2 encodings (package mseed), from local files,
	compressed or not, or from http(s) URLs (package load).

	Writes MATLAB Level 5 MAT-files, optionally compressed, and reads
	them back (package mat5).

	Converts a Stream into one MAT-file per trace, with every metadata
	field as a string and the samples in their native type (package convert).

	Plots traces as PNG time series (package wplot).

A Trace's metadata is kept in a Stats, an ordered mapping with no fixed
set of keys. Metadata values are turned into text by Render, the same
rule for every type.

The stream2matfile command (cmd/stream2matfile) puts all of the above together.
*/
package seismat
