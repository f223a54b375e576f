package elastic

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SearchResult is the answer of a _search call
type SearchResult struct {
	Took         int                          `json:"took"`
	TimedOut     bool                         `json:"timed_out"`
	Hits         Hits                         `json:"hits"`
	Aggregations map[string]*Aggregation      `json:"aggregations,omitempty"`
	Suggest      map[string][]SuggestionEntry `json:"suggest,omitempty"`
}

// Hits holds the matching documents
type Hits struct {
	Total *Total     `json:"total,omitempty"`
	Hits  []Document `json:"hits"`
}

// Total is the number of matching documents
type Total struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// TotalValue returns the number of matching documents, zero when untracked
func (h Hits) TotalValue() int {
	if h.Total == nil {
		return 0
	}
	return h.Total.Value
}

// Document is one hit of a search or a document read by id
type Document struct {
	Index     string                   `json:"_index,omitempty"`
	ID        string                   `json:"_id"`
	Score     *float64                 `json:"_score,omitempty"`
	Source    map[string]interface{}   `json:"_source,omitempty"`
	Highlight map[string][]string      `json:"highlight,omitempty"`
	Fields    map[string][]interface{} `json:"fields,omitempty"`
	Sort      []interface{}            `json:"sort,omitempty"`
}

// SuggestionEntry is the suggestion of one term of the suggested text
type SuggestionEntry struct {
	Text    string             `json:"text"`
	Offset  int                `json:"offset"`
	Length  int                `json:"length"`
	Options []SuggestionOption `json:"options"`
}

// SuggestionOption is one alternative of a suggested term
type SuggestionOption struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Freq  int     `json:"freq"`
}

// Aggregation is one named aggregation of a search result. Sub aggregations
// are kept by name, whatever their nesting (nested, reverse_nested, filter).
type Aggregation struct {
	DocCount         int
	Value            *float64
	SumOtherDocCount int
	Buckets          []Bucket
	Sub              map[string]*Aggregation
}

// Bucket is one bucket of a terms aggregation
type Bucket struct {
	Key      string
	DocCount int
	Sub      map[string]*Aggregation
}

var aggregationFields = map[string]struct{}{
	"doc_count":                   {},
	"value":                       {},
	"sum_other_doc_count":         {},
	"doc_count_error_upper_bound": {},
	"buckets":                     {},
	"meta":                        {},
}

var bucketFields = map[string]struct{}{
	"key":           {},
	"key_as_string": {},
	"doc_count":     {},
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Aggregation) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if v, ok := raw["doc_count"]; ok {
		if err := json.Unmarshal(v, &a.DocCount); err != nil {
			return fmt.Errorf("doc_count: %w", err)
		}
	}
	if v, ok := raw["value"]; ok && string(v) != "null" {
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			return fmt.Errorf("value: %w", err)
		}
		a.Value = &f
	}
	if v, ok := raw["sum_other_doc_count"]; ok {
		if err := json.Unmarshal(v, &a.SumOtherDocCount); err != nil {
			return fmt.Errorf("sum_other_doc_count: %w", err)
		}
	}
	if v, ok := raw["buckets"]; ok {
		if err := json.Unmarshal(v, &a.Buckets); err != nil {
			return fmt.Errorf("buckets: %w", err)
		}
	}
	sub, err := subAggregations(raw, aggregationFields)
	if err != nil {
		return err
	}
	a.Sub = sub
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (bk *Bucket) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if v, ok := raw["key_as_string"]; ok {
		if err := json.Unmarshal(v, &bk.Key); err != nil {
			return fmt.Errorf("key_as_string: %w", err)
		}
	} else if v, ok := raw["key"]; ok {
		key, err := bucketKey(v)
		if err != nil {
			return err
		}
		bk.Key = key
	}
	if v, ok := raw["doc_count"]; ok {
		if err := json.Unmarshal(v, &bk.DocCount); err != nil {
			return fmt.Errorf("doc_count: %w", err)
		}
	}
	sub, err := subAggregations(raw, bucketFields)
	if err != nil {
		return err
	}
	bk.Sub = sub
	return nil
}

func bucketKey(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), nil
	}
	var bl bool
	if err := json.Unmarshal(v, &bl); err == nil {
		return strconv.FormatBool(bl), nil
	}
	return "", fmt.Errorf("unsupported bucket key %s", string(v))
}

func subAggregations(raw map[string]json.RawMessage, known map[string]struct{}) (map[string]*Aggregation, error) {
	var sub map[string]*Aggregation
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if len(v) == 0 || v[0] != '{' {
			continue
		}
		agg := &Aggregation{}
		if err := json.Unmarshal(v, agg); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		if sub == nil {
			sub = map[string]*Aggregation{}
		}
		sub[k] = agg
	}
	return sub, nil
}
