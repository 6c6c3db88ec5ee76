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
	"testing"

	"github.com/stockparfait/datahub/schema"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeseries(t *testing.T) {
	t.Parallel()

	d := func(s string) schema.Date {
		res, err := schema.NewDateFromString(s)
		if err != nil {
			panic(err)
		}
		return res
	}

	dates := func() []schema.Date {
		return []schema.Date{
			d("2021-01-01"),
			d("2021-01-02"),
			d("2021-01-03"),
			d("2021-01-04"),
			d("2021-01-05"),
		}
	}
	data := func() []float64 { return []float64{1.0, 2.0, 3.0, 4.0, 5.0} }

	Convey("Timeseries methods work", t, func() {
		ts := NewTimeseries(dates(), data())

		Convey("Init initializes correctly", func() {
			So(ts.Dates(), ShouldResemble, dates())
			So(ts.Data(), ShouldResemble, data())
			So(ts.Len(), ShouldEqual, 5)
			So(ts.Check(), ShouldBeNil)
			So(ts.Sample().Mean(), ShouldEqual, 3.0)
		})

		Convey("Check detects unordered dates", func() {
			bad := NewTimeseries(
				[]schema.Date{d("2021-01-02"), d("2021-01-02")}, []float64{1, 2})
			So(bad.Check(), ShouldNotBeNil)
		})

		Convey("Copy actually makes a copy", func() {
			dates2 := dates()
			data2 := data()
			ts := NewTimeseries(dates2, data2).Copy()
			dates2[3] = d("2000-10-10")
			data2[3] = 200.0
			So(ts.Dates(), ShouldResemble, dates())
			So(ts.Data(), ShouldResemble, data())
			So(ts.Check(), ShouldBeNil)
		})

		Convey("Range", func() {
			r := ts.Range(d("2021-01-02"), d("2021-01-04"))
			So(r.Dates(), ShouldResemble, dates()[1:4])
			So(r.Data(), ShouldResemble, data()[1:4])

			r = ts.Range(d("2020-12-31"), d("2021-01-06"))
			So(r, ShouldResemble, ts)

			r = ts.Range(schema.Date{}, d("2021-01-02"))
			So(r.Data(), ShouldResemble, data()[:2])

			r = ts.Range(d("2021-01-04"), schema.Date{})
			So(r.Data(), ShouldResemble, data()[3:])

			r = ts.Range(d("2021-01-05"), d("2021-01-04"))
			So(len(r.Dates()), ShouldEqual, 0)
		})

		Convey("Shift", func() {
			r := ts.Shift(0)
			So(r, ShouldResemble, ts)

			r = ts.Shift(2)
			So(r.Dates(), ShouldResemble, dates()[2:])
			So(r.Data(), ShouldResemble, data()[:3])

			r = ts.Shift(-2)
			So(r.Dates(), ShouldResemble, dates()[:3])
			So(r.Data(), ShouldResemble, data()[2:])

			So(ts.Shift(5).Len(), ShouldEqual, 0)
			So(ts.Shift(-7).Len(), ShouldEqual, 0)
		})

		Convey("LogProfits", func() {
			dts, err := ts.LogProfits(1)
			So(err, ShouldBeNil)
			So(ts.Data(), ShouldResemble, data()) // the original ts is not modified
			So(dts.Dates(), ShouldResemble, ts.Dates()[1:])
			So(testutil.RoundSlice(dts.Data(), 5), ShouldResemble,
				testutil.RoundSlice([]float64{
					math.Log(2.0),
					math.Log(3.0 / 2.0),
					math.Log(4.0 / 3.0),
					math.Log(5.0 / 4.0),
				}, 5))
		})

		Convey("LogProfits on too short Timeseries", func() {
			lp, err := ts.LogProfits(len(data()) + 1)
			So(err, ShouldBeNil)
			So(len(lp.Data()), ShouldEqual, 0)
		})

		Convey("LogProfits with bad n", func() {
			_, err := ts.LogProfits(0)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Timeseries from service data", t, func() {
		Convey("FromPrices", func() {
			dt1 := schema.NewDate(2012, 4, 25)
			dt2 := schema.NewDate(2012, 4, 26)
			prices := []schema.PriceRow{
				schema.TestPrice(dt1, "AAPL", 21.0, 22.0, 20.5, 21.5, 1000.0),
				schema.TestPrice(dt2, "AAPL", 21.94, 21.95, 21.5, 21.7, 2000.0),
			}

			Convey("Open", func() {
				ts := NewTimeseriesFromPrices(prices, PriceOpen)
				So(ts.Dates(), ShouldResemble, []schema.Date{dt1, dt2})
				So(ts.Data(), ShouldResemble, []float64{21.0, 21.94})
			})

			Convey("High", func() {
				ts := NewTimeseriesFromPrices(prices, PriceHigh)
				So(ts.Data(), ShouldResemble, []float64{22.0, 21.95})
			})

			Convey("Low", func() {
				ts := NewTimeseriesFromPrices(prices, PriceLow)
				So(ts.Data(), ShouldResemble, []float64{20.5, 21.5})
			})

			Convey("Close", func() {
				ts := NewTimeseriesFromPrices(prices, PriceClose)
				So(ts.Data(), ShouldResemble, []float64{21.5, 21.7})
				So(ts.Check(), ShouldBeNil)
			})

			Convey("Volume", func() {
				ts := NewTimeseriesFromPrices(prices, PriceVolume)
				So(ts.Data(), ShouldResemble, []float64{1000.0, 2000.0})
			})

			Convey("field by name", func() {
				f, err := PriceFieldFromString("close")
				So(err, ShouldBeNil)
				So(f, ShouldEqual, PriceClose)
				_, err = PriceFieldFromString("adj_close")
				So(err, ShouldNotBeNil)
			})
		})

		Convey("FromMacro", func() {
			rows := []schema.MacroRow{
				{Name: "gdp", Frequency: schema.Quarterly, Year: 2021, Quarter: 4, Value: 4},
				{Name: "gdp", Frequency: schema.Quarterly, Year: 2021, Quarter: 3, Value: 3},
				{Name: "gdp", Frequency: schema.Quarterly, Value: 100},
				{Name: "gdp", Frequency: schema.Quarterly, Year: 2021, Quarter: 1, Value: 1},
			}
			ts := NewTimeseriesFromMacro(rows)
			So(ts.Dates(), ShouldResemble, []schema.Date{
				schema.NewDate(2021, 1, 1),
				schema.NewDate(2021, 7, 1),
				schema.NewDate(2021, 10, 1),
			})
			So(ts.Data(), ShouldResemble, []float64{1, 3, 4})
			So(ts.Check(), ShouldBeNil)
		})
	})
}
