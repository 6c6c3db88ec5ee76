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

package datahub

import (
	"net/url"
	"strconv"

	"github.com/stockparfait/datahub/schema"
)

// Query is a request to one of the service endpoints.
type Query interface {
	Path() string       // endpoint path relative to the base URL
	Values() url.Values // query parameters; only the set filters are present
	SortColumn() string // the column to sort the table by; "" = as received
}

func setDate(v url.Values, key string, d schema.Date) {
	if !d.IsZero() {
		v.Set(key, d.String())
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

func setInt(v url.Values, key string, x int) {
	if x != 0 {
		v.Set(key, strconv.Itoa(x))
	}
}

// PriceQuery is a query for the daily prices of a symbol. The builder methods
// return a modified copy, leaving the receiver intact:
//
//	q := NewPriceQuery("AAPL").From(schema.NewDate(2012, 1, 1))
type PriceQuery struct {
	symbol string
	date   schema.Date
	from   schema.Date
	to     schema.Date
}

var _ Query = &PriceQuery{}

// NewPriceQuery creates a price query for the ticker symbol.
func NewPriceQuery(symbol string) *PriceQuery {
	return &PriceQuery{symbol: symbol}
}

// Copy the query.
func (q *PriceQuery) Copy() *PriceQuery {
	q2 := *q
	return &q2
}

// On restricts the query to a single date.
func (q *PriceQuery) On(d schema.Date) *PriceQuery {
	q2 := q.Copy()
	q2.date = d
	return q2
}

// From sets the lower bound of the date range.
func (q *PriceQuery) From(d schema.Date) *PriceQuery {
	q2 := q.Copy()
	q2.from = d
	return q2
}

// To sets the upper bound of the date range.
func (q *PriceQuery) To(d schema.Date) *PriceQuery {
	q2 := q.Copy()
	q2.to = d
	return q2
}

func (q *PriceQuery) Path() string { return "/price/" }

func (q *PriceQuery) Values() url.Values {
	v := make(url.Values)
	v.Set("symbol", q.symbol)
	setDate(v, "date", q.date)
	setDate(v, "from_date", q.from)
	setDate(v, "to_date", q.to)
	return v
}

// SortColumn is "date": price tables are sorted chronologically.
func (q *PriceQuery) SortColumn() string { return "date" }

// FundamentalsQuery is a query for the fundamental data of a company.
type FundamentalsQuery struct {
	symbol    string
	frequency schema.Frequency
	name      string
	year      int
}

var _ Query = &FundamentalsQuery{}

// NewFundamentalsQuery creates a query for the company's quarterly
// fundamentals.
func NewFundamentalsQuery(symbol string) *FundamentalsQuery {
	return &FundamentalsQuery{symbol: symbol, frequency: schema.Quarterly}
}

// Copy the query.
func (q *FundamentalsQuery) Copy() *FundamentalsQuery {
	q2 := *q
	return &q2
}

// Frequency of the reports, e.g. schema.Yearly. An empty value restores the
// default schema.Quarterly.
func (q *FundamentalsQuery) Frequency(f schema.Frequency) *FundamentalsQuery {
	q2 := q.Copy()
	if f == "" {
		f = schema.Quarterly
	}
	q2.frequency = f
	return q2
}

// Name restricts the query to a single fundamental metric.
func (q *FundamentalsQuery) Name(name string) *FundamentalsQuery {
	q2 := q.Copy()
	q2.name = name
	return q2
}

// Year restricts the query to a single fiscal year.
func (q *FundamentalsQuery) Year(year int) *FundamentalsQuery {
	q2 := q.Copy()
	q2.year = year
	return q2
}

func (q *FundamentalsQuery) Path() string { return "/fundamentals/" }

func (q *FundamentalsQuery) Values() url.Values {
	v := make(url.Values)
	v.Set("symbol", q.symbol)
	v.Set("frequency", q.frequency)
	setString(v, "name", q.name)
	setInt(v, "year", q.year)
	return v
}

func (q *FundamentalsQuery) SortColumn() string { return "" }

// MacroQuery is a query for a macroeconomic series, e.g. "CPI".
type MacroQuery struct {
	name      string
	frequency schema.Frequency
	from      schema.Date
	to        schema.Date
	month     int
	quarter   int
}

var _ Query = &MacroQuery{}

// NewMacroQuery creates a query for the named macroeconomic series.
func NewMacroQuery(name string) *MacroQuery {
	return &MacroQuery{name: name}
}

// Copy the query.
func (q *MacroQuery) Copy() *MacroQuery {
	q2 := *q
	return &q2
}

// Frequency of the series. Empty means the service default.
func (q *MacroQuery) Frequency(f schema.Frequency) *MacroQuery {
	q2 := q.Copy()
	q2.frequency = f
	return q2
}

// From sets the lower bound of the date range.
func (q *MacroQuery) From(d schema.Date) *MacroQuery {
	q2 := q.Copy()
	q2.from = d
	return q2
}

// To sets the upper bound of the date range.
func (q *MacroQuery) To(d schema.Date) *MacroQuery {
	q2 := q.Copy()
	q2.to = d
	return q2
}

// Month restricts the query to a month of the year, 1..12.
func (q *MacroQuery) Month(month int) *MacroQuery {
	q2 := q.Copy()
	q2.month = month
	return q2
}

// Quarter restricts the query to a quarter of the year, 1..4.
func (q *MacroQuery) Quarter(quarter int) *MacroQuery {
	q2 := q.Copy()
	q2.quarter = quarter
	return q2
}

func (q *MacroQuery) Path() string { return "/macroeconomic/" }

func (q *MacroQuery) Values() url.Values {
	v := make(url.Values)
	v.Set("name", q.name)
	setString(v, "frequency", q.frequency)
	setDate(v, "from_date", q.from)
	setDate(v, "to_date", q.to)
	setInt(v, "month", q.month)
	setInt(v, "quarter", q.quarter)
	return v
}

func (q *MacroQuery) SortColumn() string { return "" }
