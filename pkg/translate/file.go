package translate

import (
	"context"
	"fmt"
	"sort"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// FileType is the semantic type of files of a file repository
	FileType = model.OpenMINDSRoot + "core/File"

	fileQueryID = "b96f11b3-1bcb-44c1-8d12-d33dbec3b990"
)

// FileTranslator produces the documents of the file repository listings
type FileTranslator struct{}

// Meta implements Translator
func (FileTranslator) Meta() Meta {
	return Meta{
		Name:          "file",
		TargetType:    model.TypeFile,
		Generation:    GenerationV3,
		SemanticTypes: []string{FileType},
		QueryIDs:      map[string]string{FileType: fileQueryID},
	}
}

// Translate implements Translator. Files outside of a repository or without
// a location are skipped.
func (FileTranslator) Translate(_ context.Context, file model.FileV3, _ model.Stage, _ bool, _ *Utils) (model.TargetInstance, error) {
	if blank(file.FileRepository) || blank(file.IRI) || blank(file.Name) {
		return nil, nil
	}
	f := &model.FileDocument{
		TargetBase: model.TargetBase{
			ID:             file.UUID(),
			Type:           model.NewValue(model.TypeFile),
			Category:       model.NewValue("File"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			Title:          model.NewValue(file.Name),
			AllIdentifiers: file.Identifier,
			Identifier:     model.Distinct(model.UUIDsOf(file.Identifier)),
		},
		FileRepository:         model.UUIDOf(file.FileRepository),
		IRI:                    model.NewLink(file.IRI, file.IRI),
		Format:                 model.RefOf(file.Format),
		UsedInResearchProducts: versionRefs(file.UsedInResearchProducts, true),
	}

	viewers := append([]model.ServiceLink(nil), file.ServiceLinks...)
	sort.SliceStable(viewers, func(i, j int) bool { return viewers[i].DisplayLabel() < viewers[j].DisplayLabel() })
	for _, s := range viewers {
		f.Viewer = append(f.Viewer, model.NewLink(s.URL, fmt.Sprintf("Open in %s", s.Service)))
	}

	if file.Size != nil && !blank(file.Size.Unit) {
		f.Size = model.NewValue(displaySize(file.Size.Value))
	}
	f.GroupingTypes = groupingTypes(file.FileBundles)
	return f, nil
}

// groupingTypes groups the bundles of a file by their grouping, both sorted
func groupingTypes(bundles []model.FileBundleRef) []model.GroupingType {
	index := map[string]int{}
	var result []model.GroupingType
	for _, b := range bundles {
		ref := model.NewReference(model.UUIDOf(b.ID), b.FullName)
		i, ok := index[b.GroupingTypeLabel]
		if !ok {
			i = len(result)
			index[b.GroupingTypeLabel] = i
			result = append(result, model.GroupingType{Name: b.GroupingTypeLabel})
		}
		result[i].FileBundles = append(result[i].FileBundles, ref)
	}
	for _, g := range result {
		sortRefs(g.FileBundles)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
