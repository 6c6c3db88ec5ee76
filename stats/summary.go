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

package stats

import (
	"github.com/stockparfait/datahub/table"
	"github.com/stockparfait/errors"
)

// SampleFromColumn collects the numbers of the table column into a Sample.
// Null cells are skipped, any other non-number is an error.
func SampleFromColumn(t *table.Table, column string) (*Sample, error) {
	cells, err := t.Column(column)
	if err != nil {
		return nil, errors.Annotate(err, "failed to read column '%s'", column)
	}
	data := make([]float64, 0, len(cells))
	for i, c := range cells {
		switch c.Kind {
		case table.NullCell:
			continue
		case table.NumberCell:
			data = append(data, c.Number())
		default:
			return nil, errors.Reason("row %d: '%s' is not a number: %s",
				i, column, c.String())
		}
	}
	return NewSample(data), nil
}

// SummaryHeader is the table header for Summary rows.
func SummaryHeader() []string {
	return []string{"Column", "Count", "Mean", "MAD", "Sigma", "Min", "Median", "Max"}
}

// Summary of the Sample as a table row, see SummaryHeader.
func Summary(column string, s *Sample) table.Cells {
	return table.Cells{
		table.String(column),
		table.Number(float64(s.Len())),
		table.Number(s.Mean()),
		table.Number(s.MAD()),
		table.Number(s.Sigma()),
		table.Number(s.Min()),
		table.Number(s.Median()),
		table.Number(s.Max()),
	}
}
