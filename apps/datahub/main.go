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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/stockparfait/datahub/datahub"
	"github.com/stockparfait/datahub/message"
	"github.com/stockparfait/datahub/schema"
	"github.com/stockparfait/datahub/stats"
	"github.com/stockparfait/datahub/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	ConfDir  string // default: ~/.eetc
	LogLevel logging.Level
	// Exactly one of query, price, fundamentals or macro must be present.
	Query        string   // JSON query config file
	Price        []string // symbols to print prices for
	Fundamentals string   // symbol to print fundamentals for
	Macro        string   // name of the macroeconomic series
	// Filters.
	Date      schema.Date
	From      schema.Date
	To        schema.Date
	Frequency string
	Name      string // fundamentals metric
	Year      int
	Month     int
	Quarter   int
	// Output.
	JSON    bool   // print raw JSON records
	CSV     bool   // dump CSV format; default: text.
	Summary string // print statistics of this numeric column instead
}

func parseDate(s, flagName string) (schema.Date, error) {
	if s == "" {
		return schema.Date{}, nil
	}
	d, err := schema.NewDateFromString(s)
	if err != nil {
		return schema.Date{}, errors.Annotate(err, "invalid -%s", flagName)
	}
	return d, nil
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var price, date, from, to string
	fs := flag.NewFlagSet("datahub", flag.ExitOnError)
	fs.StringVar(&flags.ConfDir, "conf",
		filepath.Join(os.Getenv("HOME"), ".eetc"),
		"configuration path")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.StringVar(&flags.Query, "query", "", "JSON query config file")
	fs.StringVar(&price, "price", "", "comma separated symbols to print prices for")
	fs.StringVar(&flags.Fundamentals, "fundamentals", "", "symbol to print fundamentals for")
	fs.StringVar(&flags.Macro, "macro", "", "macroeconomic series name, e.g. gdp")
	fs.StringVar(&date, "date", "", "price date, yyyy-mm-dd")
	fs.StringVar(&from, "from", "", "start date, yyyy-mm-dd")
	fs.StringVar(&to, "to", "", "end date, yyyy-mm-dd")
	fs.StringVar(&flags.Frequency, "frequency", "",
		"Yearly, Quarterly, Monthly, Weekly or Daily")
	fs.StringVar(&flags.Name, "name", "", "fundamentals metric name")
	fs.IntVar(&flags.Year, "year", 0, "fundamentals year")
	fs.IntVar(&flags.Month, "month", 0, "macroeconomic month, 1..12")
	fs.IntVar(&flags.Quarter, "quarter", 0, "macroeconomic quarter, 1..4")
	fs.BoolVar(&flags.JSON, "json", false, "print raw JSON records")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.StringVar(&flags.Summary, "summary", "",
		"print statistics of this numeric column instead of the data")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if price != "" {
		for _, s := range strings.Split(price, ",") {
			if s = strings.TrimSpace(s); s != "" {
				flags.Price = append(flags.Price, s)
			}
		}
	}
	if flags.Date, err = parseDate(date, "date"); err != nil {
		return nil, err
	}
	if flags.From, err = parseDate(from, "from"); err != nil {
		return nil, err
	}
	if flags.To, err = parseDate(to, "to"); err != nil {
		return nil, err
	}
	kinds := 0
	for _, set := range []bool{
		flags.Query != "", len(flags.Price) > 0, flags.Fundamentals != "",
		flags.Macro != "",
	} {
		if set {
			kinds++
		}
	}
	if kinds != 1 {
		return nil, errors.Reason(
			"expected exactly one of -query, -price, -fundamentals or -macro")
	}
	if flags.JSON && (flags.CSV || flags.Summary != "") {
		return nil, errors.Reason("-json cannot be combined with -csv or -summary")
	}
	return &flags, nil
}

type Config struct {
	Key string `toml:"key"` // EETC Data Hub API key
	URL string `toml:"url"` // optional, overrides the service URL
}

func parseConfig(confDir string) (*Config, error) {
	filePath := filepath.Join(confDir, "config.toml")
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `key = "YourSecretEETCDataHubKey"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.Key == "" {
		return nil, errors.Reason("config file %s has no key", filePath)
	}
	return &c, nil
}

// queryConfigs converts flags to query configs, one per price symbol.
func queryConfigs(flags *Flags) ([]*datahub.QueryConfig, error) {
	if flags.Query != "" {
		var c datahub.QueryConfig
		if err := message.FromFile(&c, flags.Query); err != nil {
			return nil, errors.Annotate(err, "failed to read query config")
		}
		return []*datahub.QueryConfig{&c}, nil
	}
	base := datahub.QueryConfig{
		Name:      flags.Name,
		Frequency: flags.Frequency,
		Date:      flags.Date,
		From:      flags.From,
		To:        flags.To,
		Year:      flags.Year,
		Month:     flags.Month,
		Quarter:   flags.Quarter,
	}
	var res []*datahub.QueryConfig
	switch {
	case len(flags.Price) > 0:
		for _, s := range flags.Price {
			c := base
			c.Kind = datahub.PriceKind
			c.Symbol = s
			res = append(res, &c)
		}
	case flags.Fundamentals != "":
		c := base
		c.Kind = datahub.FundamentalsKind
		c.Symbol = flags.Fundamentals
		res = append(res, &c)
	case flags.Macro != "":
		c := base
		c.Kind = datahub.MacroeconomicKind
		c.Name = flags.Macro
		res = append(res, &c)
	}
	for _, c := range res {
		if err := c.Check(); err != nil {
			return nil, errors.Annotate(err, "invalid query")
		}
	}
	return res, nil
}

type job struct {
	index int
	query datahub.Query
}

type result[T any] struct {
	index int
	value T
	err   error
}

// fetchAll runs f on all the queries in parallel and returns the results in
// the order of the queries.
func fetchAll[T any](ctx context.Context, queries []datahub.Query, f func(context.Context, datahub.Query) (T, error)) ([]T, error) {
	jobs := make([]job, len(queries))
	for i, q := range queries {
		jobs[i] = job{index: i, query: q}
	}
	g := func(j job) result[T] {
		v, err := f(ctx, j.query)
		return result[T]{index: j.index, value: v, err: err}
	}
	pm := iterator.ParallelMap(ctx, runtime.NumCPU(), iterator.FromSlice(jobs), g)
	// Reduce drains pm, which releases its workers.
	results := iterator.Reduce[result[T], []result[T]](pm, []result[T]{},
		func(r result[T], rs []result[T]) []result[T] { return append(rs, r) })
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	values := make([]T, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, errors.Annotate(r.err, "failed to fetch %s", queries[r.index].Path())
		}
		values[i] = r.value
	}
	return values, nil
}

func fetchTable(ctx context.Context, queries []datahub.Query) (*table.Table, error) {
	client := datahub.GetClient(ctx)
	tables, err := fetchAll(ctx, queries,
		func(ctx context.Context, q datahub.Query) (*table.Table, error) {
			return client.Table(ctx, q)
		})
	if err != nil {
		return nil, err
	}
	if len(tables) == 1 {
		return tables[0], nil
	}
	tbl, err := table.Concat(tables...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to join tables")
	}
	// Each table is already sorted by its query's column; re-sort the union.
	if col := queries[0].SortColumn(); col != "" && tbl.Len() > 0 {
		if err := tbl.SortBy(col); err != nil {
			return nil, errors.Annotate(err, "failed to sort by %s", col)
		}
	}
	return tbl, nil
}

func fetchRecords(ctx context.Context, queries []datahub.Query) (datahub.Records, error) {
	client := datahub.GetClient(ctx)
	lists, err := fetchAll(ctx, queries,
		func(ctx context.Context, q datahub.Query) (datahub.Records, error) {
			return client.Records(ctx, q)
		})
	if err != nil {
		return nil, err
	}
	records := datahub.Records{}
	for _, l := range lists {
		records = append(records, l...)
	}
	return records, nil
}

func writeTable(tbl *table.Table, flags *Flags, w io.Writer) error {
	if flags.CSV {
		if err := tbl.WriteCSV(w, table.Params{}); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.ConfDir)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	var opts []datahub.Option
	if config.URL != "" {
		opts = append(opts, datahub.WithURL(config.URL))
	}
	client, err := datahub.NewClient(config.Key, opts...)
	if err != nil {
		return errors.Annotate(err, "failed to create client")
	}
	ctx = datahub.UseClient(ctx, client)

	configs, err := queryConfigs(flags)
	if err != nil {
		return err
	}
	queries := make([]datahub.Query, len(configs))
	for i, c := range configs {
		queries[i] = c.Query()
	}

	if flags.JSON {
		records, err := fetchRecords(ctx, queries)
		if err != nil {
			return errors.Annotate(err, "failed to fetch records")
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return errors.Annotate(err, "failed to print JSON")
		}
		return nil
	}

	tbl, err := fetchTable(ctx, queries)
	if err != nil {
		return errors.Annotate(err, "failed to fetch table")
	}
	if flags.Summary != "" {
		s, err := stats.SampleFromColumn(tbl, flags.Summary)
		if err != nil {
			return errors.Annotate(err, "failed to summarize")
		}
		summary := table.NewTable(stats.SummaryHeader()...)
		summary.AddRow(stats.Summary(flags.Summary, s))
		tbl = summary
	}
	return writeTable(tbl, flags, w)
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
