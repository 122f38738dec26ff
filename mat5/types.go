/*
 * types.go, part of seismat.
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

import "fmt"

// Data types of MAT-file elements.
const (
	miINT8       uint32 = 1
	miUINT8      uint32 = 2
	miINT16      uint32 = 3
	miUINT16     uint32 = 4
	miINT32      uint32 = 5
	miUINT32     uint32 = 6
	miSINGLE     uint32 = 7
	miDOUBLE     uint32 = 9
	miINT64      uint32 = 12
	miUINT64     uint32 = 13
	miMATRIX     uint32 = 14
	miCOMPRESSED uint32 = 15
	miUTF8       uint32 = 16
	miUTF16      uint32 = 17
	miUTF32      uint32 = 18
)

// Class is the MATLAB class of an array.
type Class uint8

const (
	Cell   Class = 1
	Struct Class = 2
	Object Class = 3
	Char   Class = 4
	Sparse Class = 5
	Double Class = 6
	Single Class = 7
	Int8   Class = 8
	Uint8  Class = 9
	Int16  Class = 10
	Uint16 Class = 11
	Int32  Class = 12
	Uint32 Class = 13
	Int64  Class = 14
	Uint64 Class = 15
)

var classNames = map[Class]string{
	Cell:   "cell",
	Struct: "struct",
	Object: "object",
	Char:   "char",
	Sparse: "sparse",
	Double: "double",
	Single: "single",
	Int8:   "int8",
	Uint8:  "uint8",
	Int16:  "int16",
	Uint16: "uint16",
	Int32:  "int32",
	Uint32: "uint32",
	Int64:  "int64",
	Uint64: "uint64",
}

func (C Class) String() string {
	if n, ok := classNames[C]; ok {
		return n
	}
	return fmt.Sprintf("class(%d)", uint8(C))
}

// Array flag bits, in the second byte of the flags word.
const (
	flagLogical uint32 = 0x02
	flagGlobal  uint32 = 0x04
	flagComplex uint32 = 0x08
)

const (
	headerLen     = 128
	headerTextLen = 116
	version       = 0x0100
	maxNameLen    = 63
	//'I' 'M' when written little endian
	endianIndicator uint16 = 'M'<<8 | 'I'
)

// numeric data type that goes with each numeric class.
var classType = map[Class]uint32{
	Double: miDOUBLE,
	Single: miSINGLE,
	Int8:   miINT8,
	Uint8:  miUINT8,
	Int16:  miINT16,
	Uint16: miUINT16,
	Int32:  miINT32,
	Uint32: miUINT32,
	Int64:  miINT64,
	Uint64: miUINT64,
}

// size in bytes of an element of each numeric data type.
var typeSize = map[uint32]int{
	miINT8:   1,
	miUINT8:  1,
	miINT16:  2,
	miUINT16: 2,
	miINT32:  4,
	miUINT32: 4,
	miSINGLE: 4,
	miDOUBLE: 8,
	miINT64:  8,
	miUINT64: 8,
	miUTF8:   1,
	miUTF16:  2,
	miUTF32:  4,
}
