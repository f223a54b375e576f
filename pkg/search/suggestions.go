package search

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/model"
)

// MaxSuggestions caps the alternatives offered for one term
const MaxSuggestions = 5

var trailingNonWord = regexp.MustCompile(`\W+\s?$`)

// Suggestions proposes alternative queries for the sanitized query tokens,
// keyed by the suggested term. A failing suggestion query yields none.
func (s *Service) Suggestions(ctx context.Context, stage model.Stage, docType string, tokens []string) map[string]string {
	result := map[string]string{}
	fields := s.catalogue.SuggestFields(docType)
	if len(tokens) == 0 || len(fields) == 0 {
		return result
	}

	text := strings.Join(tokens, " ")
	suggest := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		suggest[f] = map[string]interface{}{
			"text": text,
			"term": map[string]interface{}{"field": f},
		}
	}
	index := elastic.SearchIndex(stage, docType, false)
	if docType == "" {
		index = elastic.SearchIndexPattern(stage)
	}
	res, err := s.engine.Search(ctx, index, map[string]interface{}{"size": 0, "suggest": suggest})
	if err != nil {
		s.logger.WithError(err).WithField("index", index).Warn("Suggestion query failed")
		return result
	}
	return RewriteSuggestions(res.Suggest, tokens)
}

// RewriteSuggestions maps every suggested term to the query with the
// mistyped term replaced. Options already part of the query are dropped and
// at most MaxSuggestions are kept per term, in alphabetical order.
func RewriteSuggestions(suggest map[string][]elastic.SuggestionEntry, tokens []string) map[string]string {
	result := map[string]string{}
	options := map[string]map[string]struct{}{}
	for _, entries := range suggest {
		for _, e := range entries {
			set, ok := options[e.Text]
			if !ok {
				set = map[string]struct{}{}
				options[e.Text] = set
			}
			for _, o := range e.Options {
				if text := trailingNonWord.ReplaceAllString(o.Text, ""); text != "" {
					set[text] = struct{}{}
				}
			}
		}
	}

	unescaped := unescape(tokens)
	inQuery := make(map[string]struct{}, len(unescaped))
	for _, t := range unescaped {
		inQuery[t] = struct{}{}
	}
	query := strings.Join(unescaped, " ")

	terms := make([]string, 0, len(options))
	for term := range options {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, term := range terms {
		var candidates []string
		for text := range options[term] {
			if _, ok := inQuery[text]; !ok {
				candidates = append(candidates, text)
			}
		}
		sort.Strings(candidates)
		if len(candidates) > MaxSuggestions {
			candidates = candidates[:MaxSuggestions]
		}
		for _, c := range candidates {
			if _, ok := result[c]; ok {
				continue
			}
			result[c] = strings.ReplaceAll(query, term, c)
		}
	}
	return result
}
