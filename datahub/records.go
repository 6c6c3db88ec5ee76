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
	"bytes"
	"encoding/json"

	"github.com/stockparfait/datahub/table"
	"github.com/stockparfait/errors"
)

// Record is a single decoded JSON object of a response.
type Record = map[string]any

// Records is the decoded JSON list of a response, in the received order.
type Records []Record

// Table converts the records to a table with the given columns. See
// table.FromRecords.
func (rs Records) Table(fields []string) *table.Table {
	return table.FromRecords(fields, []map[string]any(rs))
}

// DecodeRecords decodes a JSON list of objects. It also returns the union of
// the flattened field names, in the order of their first appearance. A "null"
// document is an empty list.
func DecodeRecords(data []byte) (Records, []string, error) {
	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, errors.Annotate(err, "failed to parse JSON")
	}
	fields, err := fieldOrder(data)
	if err != nil {
		return nil, nil, errors.Annotate(err, "failed to read field names")
	}
	return records, fields, nil
}

// fieldOrder walks the tokens of a JSON list of objects and collects field
// names the way table.Flatten names them.
func fieldOrder(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return []string{}, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.Reason("expected a JSON list, got %v", tok)
	}
	fields := []string{}
	seen := make(map[string]struct{})
	add := func(f string) {
		if _, ok := seen[f]; !ok {
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			continue
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, errors.Reason("expected a JSON object, got %v", tok)
		}
		if err := objectFields(dec, "", add); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// objectFields reads the rest of an object after its opening brace, including
// the closing brace.
func objectFields(dec *json.Decoder, prefix string, add func(string)) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.Reason("expected an object key, got %v", tok)
		}
		if prefix != "" {
			key = prefix + table.Separator + key
		}
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('{'):
			if !dec.More() {
				add(key)
				if _, err := dec.Token(); err != nil {
					return err
				}
				continue
			}
			if err := objectFields(dec, key, add); err != nil {
				return err
			}
		case json.Delim('['):
			add(key)
			if err := skipList(dec); err != nil {
				return err
			}
		default:
			add(key)
		}
	}
	_, err := dec.Token()
	return err
}

// skipList consumes the rest of a list after its opening bracket.
func skipList(dec *json.Decoder) error {
	for depth := 1; depth > 0; {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok {
		case json.Delim('['), json.Delim('{'):
			depth++
		case json.Delim(']'), json.Delim('}'):
			depth--
		}
	}
	return nil
}
