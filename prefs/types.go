// This file is part of GopherDS.
//
// GopherDS is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherDS is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherDS.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value represents the actual Go preference value.
type Value any

// Pref is implemented by every type in the prefs system.
type Pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// hooks are embedded in every preference type.
type hooks struct {
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

// SetHookPre sets the callback function to be called just before the value
// is updated. It is called even if the value hasn't changed.
func (h *hooks) SetHookPre(f func(value Value) error) {
	h.hookPre = f
}

// SetHookPost sets the callback function to be called just after the value
// is updated. It is called even if the value hasn't changed.
func (h *hooks) SetHookPost(f func(value Value) error) {
	h.hookPost = f
}

func (h *hooks) store(nv Value, store func()) error {
	if h.hookPre != nil {
		if err := h.hookPre(nv); err != nil {
			return err
		}
	}
	store()
	if h.hookPost != nil {
		if err := h.hookPost(nv); err != nil {
			return err
		}
	}
	return nil
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	hooks
	value atomic.Bool
}

func (p *Bool) String() string {
	return strconv.FormatBool(p.value.Load())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) sets the value
// to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}
	return p.hooks.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	return p.value.Load()
}

// Reset sets the value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// Int implements an integer type in the prefs system.
type Int struct {
	hooks
	value atomic.Int64
}

func (p *Int) String() string {
	return strconv.FormatInt(p.value.Load(), 10)
}

// Set new value to Int type. New value can be an int or a string that can be
// parsed as an int.
func (p *Int) Set(v Value) error {
	var nv int64
	switch v := v.(type) {
	case int:
		nv = int64(v)
	case int64:
		nv = v
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Int", v)
		}
		nv = n
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}
	return p.hooks.store(int(nv), func() { p.value.Store(nv) })
}

// Get returns the raw pref value as an int.
func (p *Int) Get() Value {
	return int(p.value.Load())
}

// Reset sets the value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// Float implements a floating-point type in the prefs system.
type Float struct {
	hooks
	value atomic.Value // float64
}

func (p *Float) String() string {
	return strconv.FormatFloat(p.Get().(float64), 'f', -1, 64)
}

// Set new value to Float type. New value can be a float64, a float32 or a
// string that can be parsed as a float.
func (p *Float) Set(v Value) error {
	var nv float64
	switch v := v.(type) {
	case float64:
		nv = v
	case float32:
		nv = float64(v)
	case int:
		nv = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Float", v)
		}
		nv = f
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Float", v)
	}
	return p.hooks.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value as a float64.
func (p *Float) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return 0.0
	}
	return ov.(float64)
}

// Reset sets the value to zero.
func (p *Float) Reset() error {
	return p.Set(0.0)
}

// String implements a string type in the prefs system.
type String struct {
	hooks
	value atomic.Value // string
}

func (p *String) String() string {
	ov := p.value.Load()
	if ov == nil {
		return ""
	}
	return ov.(string)
}

// Set new value to String type.
func (p *String) Set(v Value) error {
	nv := strings.TrimSpace(fmt.Sprintf("%v", v))
	return p.hooks.store(nv, func() { p.value.Store(nv) })
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Reset sets the value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}
