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

// Package message implements JSON-based configuration messages, such as query
// configs of the datahub command line tool.
package message

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"github.com/stockparfait/errors"
)

// Message is a JSON object with a known set of fields, implemented by a struct
// pointer:
//
//	type Query struct {
//	  Kind   string `json:"kind" required:"true" choices:"price,macroeconomic"`
//	  Symbol string `json:"symbol"`
//	  Year   int    `json:"year"`
//	}
//
//	func (q *Query) InitMessage(js any) error {
//	  return message.Init(q, js)
//	}
type Message interface {
	InitMessage(js any) error
}

var messageType = reflect.TypeOf((*Message)(nil)).Elem()

// fieldValue converts the raw JSON value of a field to the field's type t. A
// nil jv is a missing field: it yields the zero value, or for a Message the
// value initialized from {}.
func fieldValue(jv any, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	if pt := reflect.PtrTo(t); pt.Implements(messageType) {
		if jv == nil {
			jv = map[string]any{}
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(Message).InitMessage(jv); err != nil {
			return zero, errors.Annotate(err, "%s.InitMessage() failed", t.Name())
		}
		return ptr.Elem(), nil
	}
	if jv == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.String:
		s, ok := jv.(string)
		if !ok {
			return zero, errors.Reason("not a string: %v", jv)
		}
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Int:
		f, ok := jv.(float64)
		if !ok {
			return zero, errors.Reason("not a number: %v", jv)
		}
		if f != float64(int(f)) {
			return zero, errors.Reason("not an integer: %v", jv)
		}
		return reflect.ValueOf(int(f)).Convert(t), nil
	}
	return zero, errors.Reason("unsupported type: %s", t)
}

// jsonName is the JSON key of the struct field f, or "" when f is not part of
// the message.
func jsonName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	switch name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

// Init populates the struct pointed to by m from the JSON object js according
// to the field tags:
//
//	`json:"name" required:"true" choices:"one,two"`
//
// A field missing from js is set to its zero value, which must still be one
// of its choices. Keys of js that match no field are an error.
func Init(m Message, js any) error {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errors.Reason("expected a struct pointer, got %s", rv.Type())
	}
	obj, ok := js.(map[string]any)
	if !ok {
		return errors.Reason("JSON value is not an object: %v", js)
	}
	rv = rv.Elem()
	rt := rv.Type()
	known := make(map[string]bool)
	var missing []string
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := jsonName(f)
		if name == "" {
			continue
		}
		known[name] = true
		jv, present := obj[name]
		if !present && f.Tag.Get("required") == "true" {
			missing = append(missing, name)
			continue
		}
		v, err := fieldValue(jv, f.Type)
		if err != nil {
			return errors.Annotate(err, "invalid value for %s", name)
		}
		if choices, ok := f.Tag.Lookup("choices"); ok {
			if v.Kind() != reflect.String {
				return errors.Reason("choices tag on a non-string field %s", f.Name)
			}
			if !StringIn(v.String(), strings.Split(choices, ",")...) {
				return errors.Reason("value for %s is not in its choice list: '%s'",
					name, v.String())
			}
		}
		rv.Field(i).Set(v)
	}
	if len(missing) > 0 {
		return errors.Reason("missing required fields: %s", strings.Join(missing, ", "))
	}
	var extra []string
	for k := range obj {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		return errors.Reason("unsupported fields for %s: %s",
			rt.Name(), strings.Join(extra, ", "))
	}
	return nil
}

// FromJSON decodes the JSON text and initializes m from it.
func FromJSON(m Message, data []byte) error {
	var js any
	if err := json.Unmarshal(data, &js); err != nil {
		return errors.Annotate(err, "failed to decode JSON")
	}
	return m.InitMessage(js)
}

// FromFile reads a JSON file and initializes m from its content.
func FromFile(m Message, fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return errors.Annotate(err, "failed to read '%s'", fileName)
	}
	if err := FromJSON(m, data); err != nil {
		return errors.Annotate(err, "failed to parse '%s'", fileName)
	}
	return nil
}

// StringIn checks that s equals one of the values.
func StringIn(s string, values ...string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
