package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// StringList accepts either a single string or a list of strings
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// First returns the first element or an empty string
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// Page is one page of source instances as returned by the graph backend
type Page[S Source] struct {
	Data   []S
	Total  int
	From   int
	Size   int
	Errors ErrorReport
	// Undecodable counts the entries which were not JSON objects
	Undecodable int
}

type pageEnvelope struct {
	Data    []json.RawMessage `json:"data"`
	Total   int               `json:"total"`
	From    int               `json:"from"`
	Size    int               `json:"size"`
	Message string            `json:"message,omitempty"`
	Error   *pageError        `json:"error,omitempty"`
}

type pageError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DecodePage decodes a page envelope. Instances are decoded one by one and
// fields failing to parse are recorded in the page's error report.
func DecodePage[S Source](body []byte) (*Page[S], error) {
	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	if env.Error != nil && len(env.Data) == 0 {
		return nil, fmt.Errorf("graph backend returned error %d: %s", env.Error.Code, env.Error.Message)
	}
	page := &Page[S]{
		Data:   make([]S, 0, len(env.Data)),
		Total:  env.Total,
		From:   env.From,
		Size:   env.Size,
		Errors: ErrorReport{},
	}
	for _, raw := range env.Data {
		instance, warnings, err := DecodeGracefully[S](raw)
		if err != nil {
			page.Errors.Add("unknown", err.Error())
			page.Undecodable++
			continue
		}
		for _, w := range warnings {
			page.Errors.Add(errorKey(instance), w)
		}
		page.Data = append(page.Data, instance)
	}
	return page, nil
}

// DecodeGracefully decodes one instance. When the instance does not fit its
// Go type as a whole, objects and arrays are decoded member by member and only
// the members that do not match are left at their zero value and reported.
func DecodeGracefully[S Source](raw []byte) (S, []string, error) {
	var instance S
	if err := json.Unmarshal(raw, &instance); err == nil {
		return instance, nil, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return instance, nil, fmt.Errorf("instance is not a JSON object: %w", err)
	}

	var zero S
	instance = zero
	var warnings []string
	decodeObject(fields, reflect.ValueOf(&instance).Elem(), "", &warnings)
	return instance, warnings, nil
}

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// decodeInto reports false if nothing of raw could be kept in target.
func decodeInto(raw json.RawMessage, target reflect.Value, path string, warnings *[]string) bool {
	fresh := reflect.New(target.Type())
	err := json.Unmarshal(raw, fresh.Interface())
	if err == nil {
		target.Set(fresh.Elem())
		return true
	}
	if decodePartially(raw, target, path, warnings) {
		return true
	}
	*warnings = append(*warnings, fmt.Sprintf("Was not able to parse %s - target type is %s", path, targetType(err)))
	target.Set(reflect.Zero(target.Type()))
	return false
}

func decodePartially(raw json.RawMessage, target reflect.Value, path string, warnings *[]string) bool {
	t := target.Type()
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer:
		elem := reflect.New(t.Elem())
		if !decodePartially(raw, elem.Elem(), path, warnings) {
			return false
		}
		target.Set(elem)
		return true
	case reflect.Slice:
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return false
		}
		out := reflect.MakeSlice(t, 0, len(items))
		for i, item := range items {
			elem := reflect.New(t.Elem()).Elem()
			// elements which do not fit at all are dropped
			if decodeInto(item, elem, fmt.Sprintf("%s[%d]", path, i), warnings) {
				out = reflect.Append(out, elem)
			}
		}
		target.Set(out)
		return true
	case reflect.Struct:
		var fields map[string]json.RawMessage
		if json.Unmarshal(raw, &fields) != nil {
			return false
		}
		fresh := reflect.New(t).Elem()
		decodeObject(fields, fresh, path, warnings)
		target.Set(fresh)
		return true
	}
	return false
}

func decodeObject(fields map[string]json.RawMessage, target reflect.Value, path string, warnings *[]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, ok := fieldByJSONName(target, key)
		if !ok {
			continue
		}
		fieldPath := key
		if path != "" {
			fieldPath = path + "." + key
		}
		decodeInto(fields[key], field, fieldPath, warnings)
	}
}

// fieldByJSONName resolves key the way encoding/json does: exact names win
// over case-insensitive ones and direct fields over promoted ones.
func fieldByJSONName(v reflect.Value, key string) (reflect.Value, bool) {
	if f, ok := lookupField(v, key, false); ok {
		return f, true
	}
	return lookupField(v, key, true)
}

func lookupField(v reflect.Value, key string, fold bool) (reflect.Value, bool) {
	t := v.Type()
	var embedded []int
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			embedded = append(embedded, i)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if name == key || (fold && strings.EqualFold(name, key)) {
			return v.Field(i), true
		}
	}
	for _, i := range embedded {
		if f, ok := lookupField(v.Field(i), key, fold); ok {
			return f, true
		}
	}
	return reflect.Value{}, false
}

func targetType(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Type != nil {
		return typeErr.Type.String()
	}
	return "unknown"
}

func errorKey(s Source) string {
	if id := s.SourceID(); id != "" {
		return id
	}
	return "unknown"
}
