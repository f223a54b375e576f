package translate

import (
	"context"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// DatasetType is the semantic type of the version independent dataset concept
	DatasetType = model.OpenMINDSRoot + "core/Dataset"

	datasetQueryID = "1967ced9-e3f9-4d8f-a2e6-296f3fb6329f"
	citationHint   = "Using this citation allows you to reference all versions of this dataset with one citation.\nUsage of version specific data and metadata should be acknowledged by citing the individual dataset version."
)

// DatasetTranslator produces the version overview of datasets published in
// several versions. Datasets with a single version are not indexed, the
// version document stands for them.
type DatasetTranslator struct{}

// Meta implements Translator
func (DatasetTranslator) Meta() Meta {
	return Meta{
		Name:          "dataset",
		TargetType:    model.TypeDatasetVersions,
		Generation:    GenerationV3,
		SemanticTypes: []string{DatasetType},
		QueryIDs:      map[string]string{DatasetType: datasetQueryID},
	}
}

// Translate implements Translator
func (DatasetTranslator) Translate(_ context.Context, ds model.DatasetV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	if len(ds.Versions) <= 1 {
		return nil, nil
	}
	id := ds.UUID()
	d := &model.DatasetOverview{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeDatasetVersions),
			Category:       model.NewValue("Dataset Overview"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          value(ds.FullName),
			AllIdentifiers: ds.Identifier,
			Identifier:     model.Distinct(model.UUIDsOf(ds.Identifier)),
		},
		Description: value(ds.Description),
		Authors:     personRefs(ds.Authors),
		Custodians:  personRefs(ds.Custodians),
	}

	d.Datasets = versionEntries(ds.Versions, u)

	c := HandleCitation(ds.DOI, ds.HowToCite)
	d.Citation, d.CustomCitation, d.DOI = c.Citation, c.CustomCitation, c.DOI
	if d.Citation != nil {
		d.CitationHint = model.NewValue(citationHint)
	}
	if !blank(ds.Homepage) {
		d.Homepage = model.NewLink(ds.Homepage, ds.Homepage)
	}
	d.QueryBuilderText = queryBuilderText(ds.PrimaryType(), id)
	return d, nil
}
