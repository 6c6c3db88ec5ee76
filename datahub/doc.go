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

// Package datahub is a client for the REST API of EETC Data Hub, a hosted
// service of historical financial data.
//
// The service has three endpoints: daily prices (/price/), company
// fundamentals (/fundamentals/) and macroeconomic series (/macroeconomic/).
// Each endpoint takes a few query parameters and returns a JSON list of flat
// objects. A query is built with NewPriceQuery, NewFundamentalsQuery or
// NewMacroQuery and the builder methods for its optional filters; filters that
// are not set are not sent at all.
//
// Every request carries the API key in the EETC-API-Key header. A response with
// a status other than 200 OK results in *HTTPError. There are no retries:
// every call is exactly one GET request.
//
// The results are available in three forms:
//
//   - Records: the decoded JSON objects, unmodified and in the received order
//     (PriceData, FundamentalsData, MacroeconomicData);
//   - *table.Table: one row per record and one column per observed field
//     (PriceTable, FundamentalsTable, MacroeconomicTable); the price table is
//     sorted by date;
//   - typed rows for prices and macroeconomic series (Prices, MacroSeries).
//
// The Client holds only immutable configuration and is safe for concurrent
// use.
package datahub
