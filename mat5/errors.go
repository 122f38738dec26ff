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

package mat5

import (
	"fmt"

	"github.com/rmera/seismat"
)

// Error is the error type of the mat5 package. It implements seismat.FileError.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func newError(message, filename string, critical bool, deco ...string) *Error {
	return &Error{message: message, filename: filename, deco: deco, critical: critical}
}

func (err *Error) Error() string {
	if err.filename == "" {
		return "mat file error: " + err.message
	}
	return fmt.Sprintf("mat file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error
func (err *Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file to which the failing reader or writer was associated
func (err *Error) FileName() string { return err.filename }

// Format returns the format of the file (always "mat") associated to the error
func (err *Error) Format() string { return "mat" }

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

// errDecorate decorates err, which must come from this library, with
// the caller. Foreign errors become critical *Error.
func errDecorate(err error, caller, filename string) error {
	if e, ok := err.(seismat.Error); ok {
		e.Decorate(caller)
		return e
	}
	return newError(err.Error(), filename, true, caller)
}

// Messages
const (
	NotWritable     = "Writer closed or not initialized"
	BadName         = "Invalid variable name"
	Unsupported     = "Unsupported value type"
	WrongFormat     = "Wrong format in the MAT file"
	NotLevel5       = "Not a Level 5 MAT file"
	UnsupportedData = "Unsupported data type in the MAT file"
)

var (
	_ seismat.FileError = (*Error)(nil)
	_ seismat.VarWriter = (*Writer)(nil)
)
