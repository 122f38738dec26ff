/*
 * errors.go, part of seismat.
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
	"fmt"

	"github.com/rmera/seismat"
)

// Error is the error type of the mseed package. It implements seismat.FileError.
type Error struct {
	message  string
	filename string
	offset   int //byte offset of the failing record, -1 if not known.
	deco     []string
	critical bool
}

func newError(message, filename string, offset int, deco ...string) *Error {
	return &Error{message: message, filename: filename, offset: offset, deco: deco, critical: true}
}

func (err *Error) Error() string {
	where := err.filename
	if where == "" {
		where = "<stream>"
	}
	if err.offset >= 0 {
		return fmt.Sprintf("miniSEED %s error at byte %d: %s", where, err.offset, err.message)
	}
	return fmt.Sprintf("miniSEED %s error: %s", where, err.message)
}

// Decorate adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file being decoded when the error happened
func (err *Error) FileName() string { return err.filename }

// Offset returns the byte offset of the record that failed, or -1.
func (err *Error) Offset() int { return err.offset }

// Format returns the format of the file (always "mseed") associated to the error
func (err *Error) Format() string { return "mseed" }

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	if e, ok := err.(seismat.Error); ok {
		e.Decorate(caller)
		return e
	}
	return newError(err.Error(), "", -1, caller)
}

const (
	BadHeader        = "Not a valid fixed section of data header"
	NoBlockette1000  = "Record without blockette 1000"
	ShortRecord      = "Record shorter than announced"
	UnsupportedCodec = "Unsupported data encoding"
	NotEnoughData    = "Not enough data for the announced samples"
	BadSteim         = "Wrong Steim frame"
)

var _ seismat.FileError = (*Error)(nil)
