/*
 * interfaces.go, part of seismat.
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

import "io"

// StreamDecoder is implemented by anything able to turn a byte stream
// into a Stream. name is only used to label errors and metadata.
type StreamDecoder interface {
	Decode(r io.Reader, name string) (Stream, error)
}

// VarWriter is the minimal interface of a matrix-file writer: named
// variables go in, one file comes out on Close.
type VarWriter interface {
	WriteVar(name string, value any) error
	Close() error
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds the caller to the decoration slice and returns the slice. An empty string only returns the current value.
}

// FileError is an Error associated with a file, either read or written.
type FileError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}
