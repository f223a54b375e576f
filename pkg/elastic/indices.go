package elastic

import (
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const temporaryPrefix = "tmp_"

// SearchIndex names the index holding the searchable documents of one type
func SearchIndex(stage model.Stage, docType string, temporary bool) string {
	return indexName("search", stage, docType, temporary)
}

// AutoReleasedIndex names the index holding the documents of one type which
// are released without being searchable (files, contributors of previews...)
func AutoReleasedIndex(stage model.Stage, docType string, temporary bool) string {
	return indexName("autorelease", stage, docType, temporary)
}

// IdentifiersIndex names the index of every known identifier of one stage
func IdentifiersIndex(stage model.Stage) string {
	return "identifiers_" + stage.Group()
}

// SearchIndexPattern matches the search indices of every type of one stage
func SearchIndexPattern(stage model.Stage) string {
	return "search_" + stage.Group() + "_*"
}

func indexName(kind string, stage model.Stage, docType string, temporary bool) string {
	name := kind + "_" + stage.Group() + "_" + typeSlug(docType)
	if temporary {
		name = temporaryPrefix + name
	}
	return name
}

// typeSlug lowercases a document type into an index name component,
// e.g. "Dataset Overview" -> "datasetoverview"
func typeSlug(docType string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(docType) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DocumentIndexPattern matches every index a document of one stage can be
// read from, searchable or auto released
func DocumentIndexPattern(stage model.Stage) string {
	return "search_" + stage.Group() + "_*,autorelease_" + stage.Group() + "_*"
}
