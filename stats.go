/*
 * stats.go, part of seismat.
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

import "strings"

// Names of the identifier fields. No other key is assumed to exist.
const (
	KeyNetwork  = "network"
	KeyStation  = "station"
	KeyLocation = "location"
	KeyChannel  = "channel"
)

// Stats is an ordered mapping from metadata field names to values.
// Keys keep the order in which they were first set. There is no fixed
// schema: any key can be present or absent.
// The zero value is not usable, use NewStats.
type Stats struct {
	keys   []string
	values map[string]any
}

// NewStats returns an empty Stats. If pairs is given, it must hold
// alternating keys (strings) and values, which are set in order.
// NewStats panics if a key is not a string or a value is missing.
func NewStats(pairs ...any) *Stats {
	if len(pairs)%2 != 0 {
		panic("seismat.NewStats: odd number of arguments")
	}
	S := &Stats{values: make(map[string]any, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic("seismat.NewStats: non-string key")
		}
		S.Set(k, pairs[i+1])
	}
	return S
}

// Set sets the value for key. A new key goes to the end, an existing
// one keeps its position.
func (S *Stats) Set(key string, value any) {
	if _, ok := S.values[key]; !ok {
		S.keys = append(S.keys, key)
	}
	S.values[key] = value
}

// Get returns the value for key, and whether it was present.
func (S *Stats) Get(key string) (any, bool) {
	if S == nil {
		return nil, false
	}
	v, ok := S.values[key]
	return v, ok
}

// Has returns true if key is present.
func (S *Stats) Has(key string) bool {
	_, ok := S.Get(key)
	return ok
}

// Delete removes key. Nothing happens if the key is absent.
func (S *Stats) Delete(key string) {
	if _, ok := S.values[key]; !ok {
		return
	}
	delete(S.values, key)
	for i, k := range S.keys {
		if k == key {
			S.keys = append(S.keys[:i], S.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (S *Stats) Len() int {
	if S == nil {
		return 0
	}
	return len(S.keys)
}

// Keys returns a copy of the keys, in order.
func (S *Stats) Keys() []string {
	if S == nil {
		return nil
	}
	return append([]string(nil), S.keys...)
}

// Each calls f for every field in order, until f returns false.
func (S *Stats) Each(f func(key string, value any) bool) {
	if S == nil {
		return
	}
	for _, k := range S.keys {
		if !f(k, S.values[k]) {
			return
		}
	}
}

// Copy returns a shallow copy of S. Nested *Stats values are copied too.
func (S *Stats) Copy() *Stats {
	if S == nil {
		return nil
	}
	ret := &Stats{keys: make([]string, 0, len(S.keys)), values: make(map[string]any, len(S.keys))}
	for _, k := range S.keys {
		v := S.values[k]
		if nested, ok := v.(*Stats); ok {
			v = nested.Copy()
		}
		ret.Set(k, v)
	}
	return ret
}

// Text returns the rendered value of key, or "" if absent.
func (S *Stats) Text(key string) string {
	v, ok := S.Get(key)
	if !ok {
		return ""
	}
	return Render(v)
}

// Network returns the rendered network code.
func (S *Stats) Network() string { return S.Text(KeyNetwork) }

// Station returns the rendered station code.
func (S *Stats) Station() string { return S.Text(KeyStation) }

// Location returns the rendered location code.
func (S *Stats) Location() string { return S.Text(KeyLocation) }

// Channel returns the rendered channel code.
func (S *Stats) Channel() string { return S.Text(KeyChannel) }

// String renders S the way a nested value is rendered, AttribDict({...}).
func (S *Stats) String() string {
	if S == nil {
		return "AttribDict({})"
	}
	parts := make([]string, 0, len(S.keys))
	for _, k := range S.keys {
		parts = append(parts, quote(k)+": "+repr(S.values[k]))
	}
	return "AttribDict({" + strings.Join(parts, ", ") + "})"
}
