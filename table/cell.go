// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CellKind is the type of the value held by a Cell.
type CellKind uint8

const (
	NullCell CellKind = iota
	StringCell
	NumberCell
	BoolCell
)

// Cell of a table Row: a nullable union of a string, a number (float64) and a
// bool. The zero value is null.
type Cell struct {
	Kind    CellKind
	number  float64
	string  string
	boolean bool
}

func Null() Cell               { return Cell{} }
func String(s string) Cell     { return Cell{Kind: StringCell, string: s} }
func Number(n float64) Cell    { return Cell{Kind: NumberCell, number: n} }
func Bool(b bool) Cell         { return Cell{Kind: BoolCell, boolean: b} }
func (c Cell) IsNull() bool    { return c.Kind == NullCell }
func (c Cell) Number() float64 { return c.number }
func (c Cell) Bool() bool      { return c.boolean }

// NewCell converts a value decoded by encoding/json into a Cell. Lists and
// objects are kept as their JSON text.
func NewCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Null()
	case string:
		return String(x)
	case float64:
		return Number(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case int:
		return Number(float64(x))
	case bool:
		return Bool(x)
	}
	js, err := json.Marshal(v)
	if err != nil {
		return String(fmt.Sprintf("%v", v))
	}
	return String(string(js))
}

// Value returns the cell content as a JSON-compatible value: nil, string,
// float64 or bool.
func (c Cell) Value() any {
	switch c.Kind {
	case StringCell:
		return c.string
	case NumberCell:
		return c.number
	case BoolCell:
		return c.boolean
	}
	return nil
}

// String prints numbers in the shortest form that parses back to the same
// value, and null as an empty string.
func (c Cell) String() string {
	switch c.Kind {
	case StringCell:
		return c.string
	case NumberCell:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	case BoolCell:
		return strconv.FormatBool(c.boolean)
	}
	return ""
}

// Less orders bools before numbers before strings, each by value. Nulls are
// greater than anything else, so they sort last.
func (c Cell) Less(c2 Cell) bool {
	if c.Kind != c2.Kind {
		if c.IsNull() || c2.IsNull() {
			return c2.IsNull()
		}
		return c.Kind > c2.Kind
	}
	switch c.Kind {
	case StringCell:
		return c.string < c2.string
	case NumberCell:
		return c.number < c2.number
	case BoolCell:
		return !c.boolean && c2.boolean
	}
	return false
}

// Cells is a Row of Cell values.
type Cells []Cell

var _ Row = Cells{}

// CSV implements Row.
func (r Cells) CSV() []string {
	res := make([]string, len(r))
	for i, c := range r {
		res[i] = c.String()
	}
	return res
}
