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
Package mseed reads SEED 2.x miniSEED data into seismat streams.

Records need a blockette 1000. Both header byte orders are accepted,
and the data word order is taken from blockette 1000. INT16, INT32,
FLOAT32, FLOAT64, Steim1 and Steim2 data are decoded. Contiguous
records of the same channel end up in a single trace.

Encode writes traces back as uncompressed records. It is mostly
useful to produce test data.
*/
package mseed
