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
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/stockparfait/datahub/schema"
	"github.com/stockparfait/datahub/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// PriceData returns the price records exactly as received.
func (c *Client) PriceData(ctx context.Context, q *PriceQuery) (Records, error) {
	return c.Records(ctx, q)
}

// PriceTable returns the price records as a table sorted by date.
func (c *Client) PriceTable(ctx context.Context, q *PriceQuery) (*table.Table, error) {
	return c.Table(ctx, q)
}

// Prices returns the price records as typed rows sorted by date.
func (c *Client) Prices(ctx context.Context, q *PriceQuery) ([]schema.PriceRow, error) {
	var rows []schema.PriceRow
	if err := c.decode(ctx, q, &rows); err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return time.Time(rows[i].Date).Before(time.Time(rows[j].Date))
	})
	return rows, nil
}

// FundamentalsData returns the fundamentals records exactly as received.
func (c *Client) FundamentalsData(ctx context.Context, q *FundamentalsQuery) (Records, error) {
	return c.Records(ctx, q)
}

// FundamentalsTable returns the fundamentals records as a table.
func (c *Client) FundamentalsTable(ctx context.Context, q *FundamentalsQuery) (*table.Table, error) {
	return c.Table(ctx, q)
}

// MacroeconomicData returns the macroeconomic records exactly as received.
func (c *Client) MacroeconomicData(ctx context.Context, q *MacroQuery) (Records, error) {
	return c.Records(ctx, q)
}

// MacroeconomicTable returns the macroeconomic records as a table.
func (c *Client) MacroeconomicTable(ctx context.Context, q *MacroQuery) (*table.Table, error) {
	return c.Table(ctx, q)
}

// MacroSeries returns the macroeconomic records as typed rows, in the received
// order.
func (c *Client) MacroSeries(ctx context.Context, q *MacroQuery) ([]schema.MacroRow, error) {
	var rows []schema.MacroRow
	if err := c.decode(ctx, q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// decode executes the query and decodes the JSON response into v.
func (c *Client) decode(ctx context.Context, q Query, v any) error {
	resp, err := c.SendRequest(ctx, q.Path(), q.Values())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Annotate(err, "failed to decode response from %s", q.Path())
	}
	logging.Debugf(ctx, "EETC Data Hub: decoded %T from %s", v, q.Path())
	return nil
}
