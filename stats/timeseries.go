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
	"math"
	"sort"

	"github.com/stockparfait/datahub/schema"
	"github.com/stockparfait/errors"
)

// Timeseries stores numeric values along with dates. The dates are always
// sorted in ascending order.
type Timeseries struct {
	dates []schema.Date
	data  []float64
}

// NewTimeseries creates a new Timeseries. The dates are expected to be sorted
// in ascending order (not checked). It panics if dates and data have different
// lengths. Note, that the argument slices are used as is, not copied.
func NewTimeseries(dates []schema.Date, data []float64) *Timeseries {
	if len(dates) != len(data) {
		panic(errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(dates), len(data)))
	}
	return &Timeseries{dates: dates, data: data}
}

// Dates of the Timeseries.
func (t *Timeseries) Dates() []schema.Date { return t.dates }

// Data of the Timeseries.
func (t *Timeseries) Data() []float64 { return t.data }

// Len is the number of points.
func (t *Timeseries) Len() int { return len(t.data) }

// Copy makes a deep copy of the Timeseries.
func (t *Timeseries) Copy() *Timeseries {
	dates := make([]schema.Date, len(t.dates))
	data := make([]float64, len(t.data))
	copy(dates, t.dates)
	copy(data, t.data)
	return NewTimeseries(dates, data)
}

// Sample of the Timeseries values, sharing the same data slice.
func (t *Timeseries) Sample() *Sample { return NewSample(t.data) }

// Check that Timeseries is consistent: the lengths of dates and data are the
// same and the dates are strictly increasing.
func (t *Timeseries) Check() error {
	if len(t.dates) != len(t.data) {
		return errors.Reason("len(dates) [%d] != len(data) [%d]",
			len(t.dates), len(t.data))
	}
	for i := 1; i < len(t.dates); i++ {
		if !t.dates[i-1].Before(t.dates[i]) {
			return errors.Reason("dates[%d] = %s >= dates[%d] = %s",
				i-1, t.dates[i-1], i, t.dates[i])
		}
	}
	return nil
}

// Range extracts the sub-series from the inclusive date interval. A zero start
// or end leaves that side open. It may return an empty Timeseries, but never
// nil.
func (t *Timeseries) Range(start, end schema.Date) *Timeseries {
	s := sort.Search(len(t.dates), func(i int) bool {
		return start.IsZero() || !t.dates[i].Before(start)
	})
	e := len(t.dates)
	if !end.IsZero() {
		e = sort.Search(len(t.dates), func(i int) bool { return t.dates[i].After(end) })
	}
	if s >= e {
		return NewTimeseries(nil, nil)
	}
	return NewTimeseries(t.dates[s:e], t.data[s:e])
}

// Shift the timeseries in time. A positive shift moves the values into the
// future, negative - into the past. The values outside of the date range are
// dropped. It may return an empty Timeseries, but never nil.
func (t *Timeseries) Shift(shift int) *Timeseries {
	if shift == 0 {
		return t
	}
	l := len(t.dates)
	if shift >= l || -shift >= l {
		return NewTimeseries(nil, nil)
	}
	if shift > 0 {
		return NewTimeseries(t.dates[shift:], t.data[:l-shift])
	}
	return NewTimeseries(t.dates[:l+shift], t.data[-shift:])
}

// LogProfits computes a new Timeseries of log-profits {log(x[t+n]) -
// log(x[t])}. The associated log-profit date is t+n. It returns an error for
// n < 1.
func (t *Timeseries) LogProfits(n int) (*Timeseries, error) {
	if n < 1 {
		return nil, errors.Reason("n=%d must be >= 1", n)
	}
	if n >= len(t.data) {
		return NewTimeseries(nil, nil), nil
	}
	deltas := make([]float64, 0, len(t.data)-n)
	for i := n; i < len(t.data); i++ {
		deltas = append(deltas, math.Log(t.data[i])-math.Log(t.data[i-n]))
	}
	return NewTimeseries(t.dates[n:], deltas), nil
}

// PriceField is an enum type indicating which PriceRow field to use.
type PriceField uint8

const (
	PriceOpen PriceField = iota
	PriceHigh
	PriceLow
	PriceClose
	PriceVolume
)

// PriceFieldFromString maps a field name as in the JSON records ("open",
// "high", "low", "close", "volume") to PriceField.
func PriceFieldFromString(s string) (PriceField, error) {
	switch s {
	case "open":
		return PriceOpen, nil
	case "high":
		return PriceHigh, nil
	case "low":
		return PriceLow, nil
	case "close":
		return PriceClose, nil
	case "volume":
		return PriceVolume, nil
	}
	return 0, errors.Reason("unsupported price field: '%s'", s)
}

// NewTimeseriesFromPrices initializes Timeseries from PriceRow slice, which is
// expected to be sorted by date, as returned by datahub Client.Prices.
func NewTimeseriesFromPrices(prices []schema.PriceRow, f PriceField) *Timeseries {
	dates := make([]schema.Date, len(prices))
	data := make([]float64, len(prices))
	for i, p := range prices {
		dates[i] = p.Date.Date()
		switch f {
		case PriceOpen:
			data[i] = p.Open
		case PriceHigh:
			data[i] = p.High
		case PriceLow:
			data[i] = p.Low
		case PriceClose:
			data[i] = p.Close
		case PriceVolume:
			data[i] = p.Volume
		default:
			panic(errors.Reason("unsupported PriceField: %d", f))
		}
	}
	return NewTimeseries(dates, data)
}

// NewTimeseriesFromMacro initializes Timeseries from a macroeconomic series.
// The points are dated by MacroRow.PeriodDate and sorted by it; points without
// a date or a year are dropped.
func NewTimeseriesFromMacro(rows []schema.MacroRow) *Timeseries {
	type point struct {
		date  schema.Date
		value float64
	}
	points := make([]point, 0, len(rows))
	for _, r := range rows {
		d := r.PeriodDate()
		if d.IsZero() {
			continue
		}
		points = append(points, point{date: d, value: r.Value})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].date.Before(points[j].date)
	})
	dates := make([]schema.Date, len(points))
	data := make([]float64, len(points))
	for i, p := range points {
		dates[i] = p.date
		data[i] = p.value
	}
	return NewTimeseries(dates, data)
}
