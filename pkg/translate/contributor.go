package translate

import (
	"context"
	"fmt"
	"sort"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	PersonType       = model.OpenMINDSRoot + "core/Person"
	OrganizationType = model.OpenMINDSRoot + "core/Organization"
)

// ContributorTranslator produces the "Contributor" documents of persons and
// organizations which contributed to at least one research product
type ContributorTranslator struct{}

// Meta implements Translator
func (ContributorTranslator) Meta() Meta {
	return Meta{
		Name:          "contributor",
		TargetType:    model.TypeContributor,
		Generation:    GenerationV3,
		SemanticTypes: []string{OrganizationType, PersonType},
		QueryIDs: map[string]string{
			OrganizationType: "00ef38c9-2532-4403-a292-5f6b3ccb85a9",
			PersonType:       "b31f015f-9592-408a-b3e2-d6ed74abc5ce",
		},
	}
}

// Translate implements Translator
func (ContributorTranslator) Translate(_ context.Context, p model.PersonOrOrganizationV3, _ model.Stage, _ bool, _ *Utils) (model.TargetInstance, error) {
	if !hasContributions(&p) {
		return nil, nil
	}
	id := p.UUID()
	c := &model.Contributor{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeContributor),
			Category:       model.NewValue("Contributor"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(contributorTitle(&p)),
			AllIdentifiers: p.Identifier,
			Identifier:     model.Distinct(append(model.IdentifiersWithPrefix("Contributor", p.Identifier), id)),
		},
		CustodianOfDataset:         contributionRefs(p.CustodianOfDataset),
		CustodianOfModel:           contributionRefs(p.CustodianOfModel),
		CustodianOfSoftware:        contributionRefs(p.CustodianOfSoftware),
		CustodianOfMetaDataModels:  contributionRefs(p.CustodianOfMetaDataModel),
		DatasetContributions:       contributionRefs(p.DatasetContributions),
		ModelContributions:         contributionRefs(p.ModelContributions),
		SoftwareContributions:      contributionRefs(p.SoftwareContributions),
		MetaDataModelContributions: contributionRefs(p.MetaDataModelContributions),
	}
	c.DatasetCitations = citations("Dataset", p.CustodianOfDataset, p.DatasetContributions)
	c.ModelCitations = citations("Model", p.CustodianOfModel, p.ModelContributions)
	c.SoftwareCitations = citations("Software", p.CustodianOfSoftware, p.SoftwareContributions)
	c.MetaDataModelCitations = citations("(Meta)Data model", p.CustodianOfMetaDataModel, p.MetaDataModelContributions)
	return c, nil
}

func hasContributions(p *model.PersonOrOrganizationV3) bool {
	for _, l := range [][]model.ResearchProductContribution{
		p.CustodianOfDataset, p.CustodianOfModel, p.CustodianOfSoftware, p.CustodianOfMetaDataModel,
		p.DatasetContributions, p.ModelContributions, p.SoftwareContributions, p.MetaDataModelContributions,
	} {
		if len(l) > 0 {
			return true
		}
	}
	return false
}

func contributorTitle(p *model.PersonOrOrganizationV3) string {
	switch {
	case p.FullName != "":
		return p.FullName
	case p.GivenName == "":
		return p.FamilyName
	}
	return fmt.Sprintf("%s, %s", p.FamilyName, p.GivenName)
}

func contributionRef(r model.ResearchProductContribution) *model.InternalReference {
	name := r.FullName
	if blank(name) {
		name = r.FallbackName
	}
	return model.NewReference(model.UUIDOf(r.ID), name)
}

// contributionRefs lists the research products, expanded to their versions
// when these are known
func contributionRefs(contributions []model.ResearchProductContribution) []*model.InternalReference {
	var result []*model.InternalReference
	for _, r := range contributions {
		if len(r.ResearchProductVersions) > 0 {
			result = append(result, versionRefs(r.ResearchProductVersions, true)...)
		} else {
			result = append(result, contributionRef(r))
		}
	}
	result = distinctRefs(result)
	if len(result) == 0 {
		return nil
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result
}

// citations collects how to cite the products of one kind, the first
// occurrence of a product wins
func citations(kind string, lists ...[]model.ResearchProductContribution) []model.Citation {
	seen := map[string]struct{}{}
	var result []model.Citation
	for _, l := range lists {
		for _, r := range l {
			if blank(r.HowToCite) && blank(r.DOI) {
				continue
			}
			ref := contributionRef(r)
			if blank(ref.Reference) || blank(ref.Value) {
				continue
			}
			if _, ok := seen[ref.Reference]; ok {
				continue
			}
			seen[ref.Reference] = struct{}{}
			c := model.Citation{ID: ref.Reference, Type: kind, Title: ref.Value}
			if !blank(r.HowToCite) {
				c.Citation = r.HowToCite
			}
			if !blank(r.DOI) {
				c.DOI = model.StripDOIPrefix(r.DOI)
			}
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result
}
