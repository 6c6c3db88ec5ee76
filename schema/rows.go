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

package schema

import (
	"strconv"
)

// Frequency of fundamentals and macroeconomic data. The service recognizes the
// values below; the client passes any value through as is.
type Frequency = string

const (
	Yearly    = Frequency("Yearly")
	Quarterly = Frequency("Quarterly")
	Monthly   = Frequency("Monthly")
	Weekly    = Frequency("Weekly")
	Daily     = Frequency("Daily")
)

// Frequencies lists the frequencies recognized by the service.
var Frequencies = []Frequency{Yearly, Quarterly, Monthly, Weekly, Daily}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDate(t Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Date().String()
}

// PriceRow is a daily price record returned by the price endpoint.
type PriceRow struct {
	Date       Time    `json:"date"`
	Symbol     string  `json:"symbol"`
	Source     string  `json:"source"` // e.g. YahooFinance
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	Volume     float64 `json:"volume"` // shares
	InsertedAt Time    `json:"inserted_at"`
	Name       string  `json:"name"` // company name
}

// PriceRowHeader is the table header matching PriceRow.CSV().
func PriceRowHeader() []string {
	return []string{"Date", "Symbol", "Source", "Open", "High", "Low", "Close",
		"Volume", "Name"}
}

// CSV implements table.Row.
func (p PriceRow) CSV() []string {
	return []string{
		formatDate(p.Date),
		p.Symbol,
		p.Source,
		formatFloat(p.Open),
		formatFloat(p.High),
		formatFloat(p.Low),
		formatFloat(p.Close),
		formatFloat(p.Volume),
		p.Name,
	}
}

// TestPrice creates a PriceRow for use in tests.
func TestPrice(date Date, symbol string, open, high, low, close, volume float64) PriceRow {
	return PriceRow{
		Date:   Time(date.ToTime()),
		Symbol: symbol,
		Source: "test",
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

// MacroRow is a single point of a macroeconomic series. Which of the period
// fields are set depends on the series frequency.
type MacroRow struct {
	Year      int       `json:"year"`
	Quarter   int       `json:"quarter"`
	Month     int       `json:"month"`
	Week      int       `json:"week"`
	Date      Time      `json:"date"`
	Name      string    `json:"name"` // series name, e.g. "gdp"
	Value     float64   `json:"value"`
	Frequency Frequency `json:"frequency"`
}

// MacroRowHeader is the table header matching MacroRow.CSV().
func MacroRowHeader() []string {
	return []string{"Name", "Frequency", "Year", "Quarter", "Month", "Week",
		"Date", "Value"}
}

// CSV implements table.Row.
func (m MacroRow) CSV() []string {
	return []string{
		m.Name,
		m.Frequency,
		strconv.Itoa(m.Year),
		strconv.Itoa(m.Quarter),
		strconv.Itoa(m.Month),
		strconv.Itoa(m.Week),
		formatDate(m.Date),
		formatFloat(m.Value),
	}
}

// PeriodDate is the date the point refers to: Date when present, otherwise the
// start of the Year/Quarter/Month period.
func (m MacroRow) PeriodDate() Date {
	if !m.Date.IsZero() {
		return m.Date.Date()
	}
	if m.Year == 0 {
		return Date{}
	}
	month := 1
	switch {
	case m.Month > 0:
		month = m.Month
	case m.Quarter > 0:
		month = (m.Quarter-1)*3 + 1
	}
	return NewDate(uint16(m.Year), uint8(month), 1)
}
