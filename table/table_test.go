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
	"bytes"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

type TestRow struct {
	Symbol string
	Name   string
}

func (r TestRow) CSV() []string { return []string{r.Symbol, r.Name} }

func records(js string) []map[string]any {
	list := testutil.JSON(js).([]any)
	res := make([]map[string]any, len(list))
	for i, r := range list {
		res[i] = r.(map[string]any)
	}
	return res
}

func TestTable(t *testing.T) {
	t.Parallel()

	Convey("Cell works", t, func() {
		Convey("NewCell", func() {
			So(NewCell(nil).IsNull(), ShouldBeTrue)
			So(NewCell("AAPL"), ShouldResemble, String("AAPL"))
			So(NewCell(21.7), ShouldResemble, Number(21.7))
			So(NewCell(3), ShouldResemble, Number(3))
			So(NewCell(true), ShouldResemble, Bool(true))
			So(NewCell([]any{1.0, "a"}), ShouldResemble, String(`[1,"a"]`))
		})

		Convey("String", func() {
			So(Number(21.7).String(), ShouldEqual, "21.7")
			So(Number(536068400.0).String(), ShouldEqual, "536068400")
			So(Null().String(), ShouldEqual, "")
			So(Bool(false).String(), ShouldEqual, "false")
		})

		Convey("Value", func() {
			So(Number(1.5).Value(), ShouldEqual, 1.5)
			So(String("x").Value(), ShouldEqual, "x")
			So(Null().Value(), ShouldBeNil)
		})

		Convey("Less", func() {
			So(Number(1).Less(Number(2)), ShouldBeTrue)
			So(Number(2).Less(Number(1)), ShouldBeFalse)
			So(String("2012-04-26").Less(String("2012-04-27")), ShouldBeTrue)
			So(Number(1).Less(Null()), ShouldBeTrue)
			So(Null().Less(String("a")), ShouldBeFalse)
			So(Null().Less(Null()), ShouldBeFalse)
			So(Bool(false).Less(Bool(true)), ShouldBeTrue)
		})
	})

	Convey("Table methods work", t, func() {
		t := NewTable("Symbol", "Name")
		headless := NewTable()

		So(t.Header, ShouldResemble, []string{"Symbol", "Name"})
		t.AddRow(TestRow{"AAPL", "Apple Inc."}, TestRow{"MSFT", "Microsoft"})
		headless.AddRow(TestRow{"AAPL", "Apple Inc."}, TestRow{"MSFT", "Microsoft"})

		Convey("AddRow worked", func() {
			So(t.Len(), ShouldEqual, 2)
			So(headless.Len(), ShouldEqual, 2)
		})

		Convey("WriteCSV", func() {
			Convey("Default Params", func() {
				var buf bytes.Buffer
				So(t.WriteCSV(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Symbol,Name
AAPL,Apple Inc.
MSFT,Microsoft
`)
			})

			Convey("Default Params, headless", func() {
				var buf bytes.Buffer
				So(headless.WriteCSV(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
AAPL,Apple Inc.
MSFT,Microsoft
`)
			})

			Convey("Limited rows, no header", func() {
				var buf bytes.Buffer
				So(t.WriteCSV(&buf, Params{Rows: 1, NoHeader: true}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
AAPL,Apple Inc.
`)
			})
		})

		Convey("WriteText", func() {
			Convey("Default Params", func() {
				var buf bytes.Buffer
				So(t.WriteText(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
Symbol |       Name
------ | ----------
  AAPL | Apple Inc.
  MSFT |  Microsoft
`)
			})

			Convey("Default Params, headless", func() {
				var buf bytes.Buffer
				So(headless.WriteText(&buf, Params{}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
AAPL | Apple Inc.
MSFT |  Microsoft
`)
			})

			Convey("Limited rows and width, no header", func() {
				var buf bytes.Buffer
				So(t.WriteText(&buf, Params{Rows: 1, NoHeader: true, MaxColWidth: 4}), ShouldBeNil)
				So("\n"+buf.String(), ShouldEqual, `
AAPL | Ap..
`)
			})

			Convey("Bad MaxColWidth", func() {
				var buf bytes.Buffer
				So(t.WriteText(&buf, Params{MaxColWidth: 2}), ShouldNotBeNil)
			})
		})

		Convey("Cell access requires Cells rows", func() {
			_, err := t.Cell(0, "Symbol")
			So(err, ShouldNotBeNil)
			So(t.SortBy("Symbol"), ShouldNotBeNil)
		})
	})

	Convey("FromRecords works", t, func() {
		recs := records(`[
  {"date": "2012-04-27T00:00:00Z", "symbol": "AAPL", "close": 20.5, "inserted_at": null},
  {"date": "2012-04-26T00:00:00Z", "symbol": "AAPL", "close": 21.7},
  {"date": "2012-04-25T00:00:00Z", "symbol": "AAPL", "close": 22, "meta": {"source": "Yahoo", "rank": 1}}
]`)

		Convey("with explicit fields", func() {
			fields := []string{"date", "symbol", "close", "inserted_at", "meta.source", "meta.rank"}
			tbl := FromRecords(fields, recs)
			So(tbl.Header, ShouldResemble, fields)
			So(tbl.Len(), ShouldEqual, 3)

			c, err := tbl.Cell(1, "close")
			So(err, ShouldBeNil)
			So(c.Number(), ShouldEqual, 21.7)

			c, err = tbl.Cell(0, "meta.source")
			So(err, ShouldBeNil)
			So(c.IsNull(), ShouldBeTrue)

			c, err = tbl.Cell(2, "meta.source")
			So(err, ShouldBeNil)
			So(c, ShouldResemble, String("Yahoo"))

			_, err = tbl.Cell(0, "unknown")
			So(err, ShouldNotBeNil)
			_, err = tbl.Cell(5, "close")
			So(err, ShouldNotBeNil)

			var buf bytes.Buffer
			So(tbl.WriteCSV(&buf, Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
date,symbol,close,inserted_at,meta.source,meta.rank
2012-04-27T00:00:00Z,AAPL,20.5,,,
2012-04-26T00:00:00Z,AAPL,21.7,,,
2012-04-25T00:00:00Z,AAPL,22,,Yahoo,1
`)
		})

		Convey("with derived fields", func() {
			tbl := FromRecords(nil, recs)
			So(tbl.Header, ShouldResemble, []string{
				"close", "date", "inserted_at", "meta.rank", "meta.source", "symbol"})
		})

		Convey("sorted by date", func() {
			tbl := FromRecords([]string{"date", "close"}, recs)
			So(tbl.SortBy("date"), ShouldBeNil)
			dates, err := tbl.Column("date")
			So(err, ShouldBeNil)
			So(dates, ShouldResemble, []Cell{
				String("2012-04-25T00:00:00Z"),
				String("2012-04-26T00:00:00Z"),
				String("2012-04-27T00:00:00Z"),
			})
			So(tbl.SortBy("volume"), ShouldNotBeNil)
		})

		Convey("stable sort with nulls last", func() {
			tbl := FromRecords([]string{"k", "v"}, records(`[
  {"k": 2, "v": "a"}, {"v": "b"}, {"k": 1, "v": "c"}, {"k": 2, "v": "d"}]`))
			So(tbl.SortBy("k"), ShouldBeNil)
			vs, err := tbl.Column("v")
			So(err, ShouldBeNil)
			So(vs, ShouldResemble, []Cell{String("c"), String("a"), String("d"), String("b")})
		})

		Convey("round trip to records", func() {
			tbl := FromRecords([]string{"date", "close", "inserted_at"}, recs[:2])
			back, err := tbl.Records()
			So(err, ShouldBeNil)
			So(back, ShouldResemble, []map[string]any{
				{"date": "2012-04-27T00:00:00Z", "close": 20.5, "inserted_at": nil},
				{"date": "2012-04-26T00:00:00Z", "close": 21.7, "inserted_at": nil},
			})
		})

		Convey("Concat", func() {
			t1 := FromRecords([]string{"date", "close"}, recs[:2])
			t2 := FromRecords([]string{"date", "meta.source"}, recs[2:])
			tbl, err := Concat(t1, t2)
			So(err, ShouldBeNil)
			So(tbl.Header, ShouldResemble, []string{"date", "close", "meta.source"})
			So(tbl.Len(), ShouldEqual, 3)
			c, err := tbl.Cell(0, "meta.source")
			So(err, ShouldBeNil)
			So(c.IsNull(), ShouldBeTrue)
			c, err = tbl.Cell(2, "meta.source")
			So(err, ShouldBeNil)
			So(c, ShouldResemble, String("Yahoo"))
			c, err = tbl.Cell(2, "close")
			So(err, ShouldBeNil)
			So(c.IsNull(), ShouldBeTrue)

			bad := NewTable("Symbol", "Name")
			bad.AddRow(TestRow{"AAPL", "Apple Inc."})
			_, err = Concat(t1, bad)
			So(err, ShouldNotBeNil)
		})

		Convey("Flatten leaves the record intact", func() {
			flat := Flatten(recs[2])
			So(flat["meta.rank"], ShouldEqual, 1.0)
			_, ok := recs[2]["meta"]
			So(ok, ShouldBeTrue)
		})

		Convey("Flatten resolves name clashes deterministically", func() {
			for i := 0; i < 10; i++ {
				So(Flatten(map[string]any{
					"a":   map[string]any{"b": 1.0},
					"a.b": 2.0,
				}), ShouldResemble, map[string]any{"a.b": 2.0})

				So(Flatten(map[string]any{
					"x.y": map[string]any{"z": 1.0},
					"x":   map[string]any{"y.z": 2.0},
				}), ShouldResemble, map[string]any{"x.y.z": 2.0})
			}
		})

		Convey("records without fields", func() {
			empty := FromRecords([]string{}, []map[string]any{{}, {}})
			So(empty.Len(), ShouldEqual, 2)
			var buf bytes.Buffer
			So(empty.WriteText(&buf, Params{}), ShouldBeNil)
			So(buf.String(), ShouldEqual, "")
			So(empty.WriteCSV(&buf, Params{}), ShouldBeNil)
		})
	})
}
