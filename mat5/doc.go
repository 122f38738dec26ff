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
Package mat5 reads and writes MATLAB Level 5 MAT-files, the format read by
MATLAB's load and by scipy.io.loadmat.

The writer stores strings as char arrays, numeric slices as 1xN row
vectors of the matching class (an []int32 is an int32 array, not a
double one) and gonum matrices as double matrices. Variables can be
zlib-compressed, element by element, as MATLAB 7 does.

The reader understands both byte orders, the small element format and
compressed elements, and decodes char and numeric arrays. Cells,
structs, objects and sparse arrays are returned without data.
*/
package mat5
