package translate

import (
	"github.com/platinummonkey/kgsearch/pkg/model"
)

const schemaOrgContext = "https://schema.org"

// datasetSchemaOrg describes a dataset version for search engine crawlers
func datasetSchemaOrg(dv *model.DatasetVersionV3) *model.SchemaOrg {
	authors := dv.Author
	name := dv.FullName
	description := dv.Description
	if dv.Dataset != nil {
		if len(authors) == 0 {
			authors = dv.Dataset.Author
		}
		if blank(name) {
			name = dv.Dataset.FullName
		}
		if blank(description) {
			description = dv.Dataset.Description
		}
	}

	meta := &model.SchemaOrg{
		Context:     schemaOrgContext,
		Type:        "Dataset",
		Name:        name,
		Description: description,
		Version:     dv.Version,
		Keywords:    dv.Keyword,
	}
	if !blank(dv.DOI) {
		meta.Identifier = append(append([]string(nil), dv.Identifier...), dv.DOI)
	}
	if dv.License != nil {
		meta.License = dv.License.URL
	}
	if dv.FirstReleasedAt != nil {
		meta.DatePublished = model.DatePart(model.ISODate(*dv.FirstReleasedAt))
	}
	meta.Creator = schemaOrgCreators(authors)
	return meta
}

// schemaOrgCreators maps authors with a family name to persons and the
// remaining named ones to organizations
func schemaOrgCreators(authors []model.PersonOrOrganizationRef) []model.SchemaOrgPerson {
	var result []model.SchemaOrgPerson
	for _, a := range authors {
		switch {
		case a.FamilyName != "":
			result = append(result, model.SchemaOrgPerson{
				Type:       "Person",
				Name:       model.PersonFullName(a.FullName, a.FamilyName, a.GivenName),
				FamilyName: a.FamilyName,
				GivenName:  a.GivenName,
			})
		case a.FullName != "":
			result = append(result, model.SchemaOrgPerson{Type: "Organization", Name: a.FullName})
		}
	}
	return result
}
