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

package seismat

import (
	"fmt"
	"strings"
)

// CError is the error type of the seismat package. It carries the
// function call stack ("decoration") the error went through.
type CError struct {
	msg      string
	deco     []string
	critical bool
}

// NewError returns a critical *CError with the given message, decorated
// with caller.
func NewError(msg, caller string) *CError {
	return &CError{msg: msg, deco: []string{caller}, critical: true}
}

func (err *CError) Error() string { return err.msg }

// Decorate adds dec to the decoration slice of the error, and returns
// the resulting slice. An empty string just returns the current slice.
func (err *CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or can be ignored.
func (err *CError) Critical() bool { return err.critical }

// Trace returns the decoration as a single "A <- B <- C" string.
func (err *CError) Trace() string { return strings.Join(err.deco, " <- ") }

// ErrDecorate decorates err with caller if err implements Error, and returns it.
// Other errors are wrapped into a *CError, keeping their message.
func ErrDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
		return e
	}
	return &CError{msg: err.Error(), deco: []string{caller}, critical: true}
}

// errorf is a shorthand for a critical *CError with a formatted message.
func errorf(caller, format string, args ...any) *CError {
	return NewError(fmt.Sprintf(format, args...), caller)
}
