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
	"github.com/stockparfait/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Separator joins the keys of nested JSON objects into a flat column name.
const Separator = "."

// flattenInto adds the leaves of record to res. Distinct paths may join into
// the same name, as in {"a": {"b": 1}, "a.b": 2}. Then the path with fewer
// levels wins, and for equal levels the first in the sorted key order wins.
// depth tracks the level of each name in res.
func flattenInto(res map[string]any, depth map[string]int, prefix string, level int, record map[string]any) {
	keys := maps.Keys(record)
	slices.Sort(keys)
	for _, k := range keys {
		v := record[k]
		if prefix != "" {
			k = prefix + Separator + k
		}
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			flattenInto(res, depth, k, level+1, m)
			continue
		}
		if d, ok := depth[k]; ok && d <= level {
			continue
		}
		res[k] = v
		depth[k] = level
	}
}

// Flatten a JSON record: the fields of nested objects become top level fields
// named "parent.child". The original record is not modified.
func Flatten(record map[string]any) map[string]any {
	res := make(map[string]any, len(record))
	flattenInto(res, make(map[string]int, len(record)), "", 0, record)
	return res
}

// Fields returns the sorted union of the flattened field names of the records.
func Fields(records []map[string]any) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for k := range Flatten(r) {
			set[k] = struct{}{}
		}
	}
	fields := maps.Keys(set)
	slices.Sort(fields)
	return fields
}

// FromRecords creates a table with one row per record and one column per
// field, in the order of fields. Nested records are flattened first. A field
// missing from a record yields a null cell. When fields is nil, the columns are
// the sorted union of all the record fields.
func FromRecords(fields []string, records []map[string]any) *Table {
	if fields == nil {
		fields = Fields(records)
	}
	t := NewTable(fields...)
	for _, r := range records {
		flat := Flatten(r)
		row := make(Cells, len(fields))
		for j, f := range fields {
			row[j] = NewCell(flat[f])
		}
		t.AddRow(row)
	}
	return t
}

// Records converts a table of Cells back to JSON-compatible records, keyed by
// the header. Null cells are kept as nil values.
func (t *Table) Records() ([]map[string]any, error) {
	res := make([]map[string]any, len(t.Rows))
	for i := range t.Rows {
		c, err := t.cells(i)
		if err != nil {
			return nil, err
		}
		r := make(map[string]any, len(t.Header))
		for j, h := range t.Header {
			if j < len(c) {
				r[h] = c[j].Value()
			} else {
				r[h] = nil
			}
		}
		res[i] = r
	}
	return res, nil
}

// Concat joins the rows of the tables of Cells into a new table. The header is
// the union of the headers in the order of first appearance, and a column
// missing from a table yields null cells for its rows.
func Concat(tables ...*Table) (*Table, error) {
	var header []string
	index := make(map[string]int)
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := index[h]; !ok {
				index[h] = len(header)
				header = append(header, h)
			}
		}
	}
	res := NewTable(header...)
	for k, t := range tables {
		for i := range t.Rows {
			c, err := t.cells(i)
			if err != nil {
				return nil, errors.Annotate(err, "table %d", k)
			}
			row := make(Cells, len(header))
			for j, h := range t.Header {
				if j < len(c) {
					row[index[h]] = c[j]
				}
			}
			res.AddRow(row)
		}
	}
	return res, nil
}
