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
	"github.com/stockparfait/datahub/message"
	"github.com/stockparfait/datahub/schema"
	"github.com/stockparfait/errors"
)

// Query kinds, one per endpoint.
const (
	PriceKind         = "price"
	FundamentalsKind  = "fundamentals"
	MacroeconomicKind = "macroeconomic"
)

// QueryConfig is the JSON form of a query, for example:
//
//	{"kind": "price", "symbol": "AAPL", "from": "2020-01-01"}
//
// Only the filters of the kind's endpoint are allowed.
type QueryConfig struct {
	Kind      string      `json:"kind" required:"true" choices:"price,fundamentals,macroeconomic"`
	Symbol    string      `json:"symbol"` // price and fundamentals
	Name      string      `json:"name"`   // macro series, or fundamentals metric
	Frequency string      `json:"frequency" choices:",Yearly,Quarterly,Monthly,Weekly,Daily"`
	Date      schema.Date `json:"date"`
	From      schema.Date `json:"from"`
	To        schema.Date `json:"to"`
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Quarter   int         `json:"quarter"`
}

var _ message.Message = &QueryConfig{}

// InitMessage implements message.Message.
func (c *QueryConfig) InitMessage(js any) error {
	if err := message.Init(c, js); err != nil {
		return errors.Annotate(err, "failed to parse QueryConfig")
	}
	return c.Check()
}

// Check that the config is a valid query: the kind's required field is set,
// and no filter of another endpoint is used.
func (c *QueryConfig) Check() error {
	var bad []string
	check := func(set bool, name string) {
		if set {
			bad = append(bad, name)
		}
	}
	switch c.Kind {
	default:
		return errors.Reason("unsupported kind: '%s'", c.Kind)
	case PriceKind:
		if c.Symbol == "" {
			return errors.Reason("price query requires a symbol")
		}
		check(c.Name != "", "name")
		check(c.Frequency != "", "frequency")
		check(c.Year != 0, "year")
		check(c.Month != 0, "month")
		check(c.Quarter != 0, "quarter")
	case FundamentalsKind:
		if c.Symbol == "" {
			return errors.Reason("fundamentals query requires a symbol")
		}
		check(!c.Date.IsZero(), "date")
		check(!c.From.IsZero(), "from")
		check(!c.To.IsZero(), "to")
		check(c.Month != 0, "month")
		check(c.Quarter != 0, "quarter")
	case MacroeconomicKind:
		if c.Name == "" {
			return errors.Reason("macroeconomic query requires a name")
		}
		check(c.Symbol != "", "symbol")
		check(!c.Date.IsZero(), "date")
		check(c.Year != 0, "year")
	}
	if len(bad) > 0 {
		return errors.Reason("%s query does not support %v", c.Kind, bad)
	}
	if c.Frequency != "" && !message.StringIn(c.Frequency, schema.Frequencies...) {
		return errors.Reason("unsupported frequency: '%s'", c.Frequency)
	}
	if c.Month < 0 || c.Month > 12 {
		return errors.Reason("month must be in [1..12], got %d", c.Month)
	}
	if c.Quarter < 0 || c.Quarter > 4 {
		return errors.Reason("quarter must be in [1..4], got %d", c.Quarter)
	}
	return nil
}

// Query creates the query for the config's endpoint.
func (c *QueryConfig) Query() Query {
	switch c.Kind {
	case PriceKind:
		return NewPriceQuery(c.Symbol).On(c.Date).From(c.From).To(c.To)
	case FundamentalsKind:
		return NewFundamentalsQuery(c.Symbol).Frequency(c.Frequency).
			Name(c.Name).Year(c.Year)
	case MacroeconomicKind:
		return NewMacroQuery(c.Name).Frequency(c.Frequency).From(c.From).
			To(c.To).Month(c.Month).Quarter(c.Quarter)
	}
	return nil
}
