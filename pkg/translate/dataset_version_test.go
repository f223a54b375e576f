package translate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const kgInstances = "https://kg.ebrains.eu/api/instances/"

func translateDatasetVersion(t *testing.T, dv model.DatasetVersionV3, stage model.Stage) (*model.DatasetVersion, *Utils) {
	t.Helper()
	u := NewUtils(fixedEnv(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)))
	target, err := DatasetVersionTranslator{}.Translate(context.Background(), dv, stage, false, u)
	require.NoError(t, err)
	require.NotNil(t, target)
	d, ok := target.(*model.DatasetVersion)
	require.True(t, ok)
	return d, u
}

func TestDatasetVersionTranslator_MultipleVersions(t *testing.T) {
	dv := model.DatasetVersionV3{
		InstanceV3: model.InstanceV3{
			ID:         kgInstances + "dv2",
			Identifier: []string{kgInstances + "dv2"},
			Type:       []string{DatasetVersionType},
		},
		FullName:          "Mouse cortex recordings",
		Version:           "v2",
		VersionInnovation: "This is the first version of this dataset.",
		DOI:               "https://doi.org/10.25493/ABC",
		Keyword:           model.StringList{"b-keyword", "A-keyword"},
		Technique:         []model.FullNameRef{{ID: kgInstances + "t1", FullName: "patch clamp"}},
		SupportChannels:   []string{"help@ebrains.eu", "https://support.example.org"},
		EthicsAssessment:  []string{model.OpenMINDSInstances + "/ethicsAssessment/EUCompliantNonSensitive"},
		Accessibility:     &model.NameWithIdentifier{Name: "free access", Identifier: freeAccess},
		FileRepository:    &model.FileRepository{ID: kgInstances + "repo", IRI: "https://data-proxy.ebrains.eu/api/v1/buckets/d-abc", FirstFile: "a.txt"},
		ServiceLinks:      []model.ServiceLink{{URL: "https://ng.example.org/1", Service: "Neuroglancer", Label: "brain"}},
		Dataset: &model.DatasetVersions{
			ID:          kgInstances + "ds",
			FullName:    "Mouse cortex",
			Description: "Overview text",
			Author:      []model.PersonOrOrganizationRef{{ID: kgInstances + "p1", FamilyName: "Doe", GivenName: "Jane"}},
			Versions: []model.Version{
				{ID: kgInstances + "dv2", VersionIdentifier: "v2", IsNewVersionOf: "v1"},
				{ID: kgInstances + "dv1", VersionIdentifier: "v1"},
			},
		},
	}

	d, u := translateDatasetVersion(t, dv, model.StageReleased)

	assert.Empty(t, u.Errors())
	assert.Equal(t, "dv2", d.ID)
	assert.Equal(t, []string{"dv2", "Dataset/dv2"}, d.Identifier)
	assert.Equal(t, "Mouse cortex recordings", d.TitleValue())
	assert.Equal(t, "v2", d.Version)
	assert.Equal(t, []*model.InternalReference{
		model.NewReference("dv1", "v1"),
		model.NewReference("dv2", "v2"),
		model.NewReference("ds", "version overview"),
	}, d.Versions)
	assert.Equal(t, model.NewReference("ds", "version overview"), d.AllVersionRef)
	assert.False(t, d.IsSearchable())

	assert.Equal(t, "repo", d.FileRepositoryID)
	assert.Equal(t, model.NewValue("free access"), d.DataAccessibility)
	assert.Equal(t, model.NewValue("Overview text"), d.Description)
	assert.Nil(t, d.NewInThisVersion)
	assert.Equal(t, []*model.InternalReference{model.NewReference("p1", "Doe, J.")}, d.Contributors)
	assert.Equal(t, model.NewValue("10.25493/ABC"), d.DOI)
	assert.Equal(t, model.NewValue("10.25493/ABC"), d.Citation)
	assert.Equal(t, []*model.Value[string]{model.NewValue("A-keyword"), model.NewValue("b-keyword")}, d.Keywords)
	assert.Equal(t, &model.Tags{Data: []string{"A-keyword", "b-keyword", "patch clamp"}, Total: 3, Size: 3}, d.Tags)
	assert.Equal(t, []*model.Value[string]{model.NewValue("patch clamp")}, d.TechniquesForFilter)
	assert.Equal(t, model.NewValue("EU-compliant"), d.EthicsAssessment)
	assert.Equal(t, []*model.ExternalReference{
		model.NewLink("mailto:help@ebrains.eu", "help@ebrains.eu"),
		model.NewLink("https://support.example.org", "https://support.example.org"),
	}, d.SupportChannels)
	assert.Equal(t, map[string][]*model.ExternalReference{
		"Neuroglancer": {model.NewLink("https://ng.example.org/1", "brain")},
	}, d.ViewData)
	assert.Equal(t, []string{BadgeIntegratedWithAtlas}, d.Badges)
	assert.False(t, d.Trending)
	assert.Contains(t, d.QueryBuilderText.Value, "instanceId=dv2")
	assert.Nil(t, d.SpecimenBySubject)

	require.NotNil(t, d.Meta)
	assert.Equal(t, "Mouse cortex recordings", d.Meta.Name)
	assert.Equal(t, []string{kgInstances + "dv2", "https://doi.org/10.25493/ABC"}, d.Meta.Identifier)
	assert.Equal(t, []model.SchemaOrgPerson{{Type: "Person", Name: "Doe, J.", FamilyName: "Doe", GivenName: "Jane"}}, d.Meta.Creator)
}

func TestDatasetVersionTranslator_SingleVersion(t *testing.T) {
	release := time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC)
	dv := model.DatasetVersionV3{
		InstanceV3:        model.InstanceV3{ID: kgInstances + "dv1"},
		ReleaseInfo:       model.ReleaseInfo{FirstReleasedAt: &release},
		FullName:          "Rat hippocampus",
		Version:           "1.0",
		Description:       "Own description",
		VersionInnovation: "Added subjects",
		Author:            []model.PersonOrOrganizationRef{{ID: kgInstances + "o1", FullName: "Some Lab"}},
		Projects:          []model.FullNameRef{{ID: kgInstances + "pr1", FullName: "Project"}},
	}

	d, _ := translateDatasetVersion(t, dv, model.StageReleased)

	assert.Equal(t, "Rat hippocampus (1.0)", d.TitleValue())
	assert.True(t, d.IsSearchable())
	assert.Empty(t, d.Versions)
	assert.Equal(t, model.NewValue("Own description"), d.Description)
	assert.Equal(t, model.NewValue("Added subjects"), d.NewInThisVersion)
	assert.Equal(t, []*model.InternalReference{model.NewReference("pr1", "Project")}, d.Projects)
	assert.Equal(t, model.NewValue("2024-05-08T10:00:00.000Z"), d.FirstRelease)
	assert.Equal(t, model.NewValue("2024-05-08"), d.ReleasedAt)
	assert.Equal(t, []string{BadgeNew}, d.Badges)
	assert.Nil(t, d.DataAccessibility)
	assert.Equal(t, []model.SchemaOrgPerson{{Type: "Organization", Name: "Some Lab"}}, d.Meta.Creator)
}

func TestDatasetVersionTranslator_Accessibility(t *testing.T) {
	bucket := &model.FileRepository{ID: kgInstances + "repo", IRI: "https://data-proxy.ebrains.eu/api/v1/buckets/d-abc"}

	tests := []struct {
		name          string
		accessibility string
		repo          *model.FileRepository
		stage         model.Stage
		check         func(t *testing.T, d *model.DatasetVersion)
	}{
		{
			name:          "embargo in progress links the bucket",
			accessibility: underEmbargo,
			repo:          bucket,
			stage:         model.StageInProgress,
			check: func(t *testing.T, d *model.DatasetVersion) {
				require.NotNil(t, d.EmbargoRestrictedAccess)
				assert.Contains(t, d.EmbargoRestrictedAccess.Value, "https://data-proxy.ebrains.eu/d-abc")
				assert.Nil(t, d.Embargo)
			},
		},
		{
			name:          "embargo released",
			accessibility: underEmbargo,
			repo:          bucket,
			stage:         model.StageReleased,
			check: func(t *testing.T, d *model.DatasetVersion) {
				require.NotNil(t, d.Embargo)
				assert.NotContains(t, d.Embargo.Value, "<a")
				assert.Nil(t, d.EmbargoRestrictedAccess)
			},
		},
		{
			name:          "controlled access",
			accessibility: controlledAccess,
			repo:          bucket,
			stage:         model.StageReleased,
			check: func(t *testing.T, d *model.DatasetVersion) {
				require.NotNil(t, d.Embargo)
				assert.Contains(t, d.Embargo.Value, "https://data-proxy.ebrains.eu/datasets/dv")
			},
		},
		{
			name:          "restricted access",
			accessibility: restrictedAccess,
			stage:         model.StageReleased,
			check: func(t *testing.T, d *model.DatasetVersion) {
				require.NotNil(t, d.Embargo)
				assert.Contains(t, d.Embargo.Value, "CBDatasetTitle=Title&")
			},
		},
		{
			name:          "external repository",
			accessibility: freeAccess,
			repo:          &model.FileRepository{ID: kgInstances + "repo", IRI: "https://example.org/data"},
			stage:         model.StageReleased,
			check: func(t *testing.T, d *model.DatasetVersion) {
				assert.Equal(t, []*model.ExternalReference{model.NewLink("https://example.org/data", "https://example.org/data")}, d.ExternalDatalink)
				assert.Empty(t, d.FileRepositoryID)
			},
		},
		{
			name:          "repository not indexed yet",
			accessibility: freeAccess,
			repo:          bucket,
			stage:         model.StageReleased,
			check: func(t *testing.T, d *model.DatasetVersion) {
				assert.Equal(t, model.NewLink("https://data-proxy.ebrains.eu/datasets/dv", "Browse files"), d.DataProxyLink)
				assert.Empty(t, d.FileRepositoryID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv := model.DatasetVersionV3{
				InstanceV3:     model.InstanceV3{ID: kgInstances + "dv"},
				FullName:       "Title",
				Accessibility:  &model.NameWithIdentifier{Name: "access", Identifier: tt.accessibility},
				FileRepository: tt.repo,
			}
			d, _ := translateDatasetVersion(t, dv, tt.stage)
			assert.Equal(t, model.NewValue("access"), d.DataAccessibility)
			tt.check(t, d)
		})
	}
}

func TestDataDescriptor(t *testing.T) {
	descriptor := model.File{IRI: "https://files/descriptor.pdf", Name: "descriptor.pdf", Roles: []string{fileRoleDataDescriptor}}

	t.Run("single descriptor", func(t *testing.T) {
		u := NewUtils(nil)
		got := dataDescriptor(&model.DatasetVersionV3{SpecialFiles: []model.File{descriptor}}, u)
		assert.Equal(t, model.NewLink("https://files/descriptor.pdf", "descriptor.pdf"), got)
		assert.Empty(t, u.Errors())
	})

	t.Run("several descriptors pick the first", func(t *testing.T) {
		second := model.File{IRI: "https://files/other.pdf", Name: "other.pdf", Roles: []string{fileRoleDataDescriptor}}
		u := NewUtils(nil)
		got := dataDescriptor(&model.DatasetVersionV3{SpecialFiles: []model.File{descriptor, second}}, u)
		assert.Equal(t, model.NewLink("https://files/descriptor.pdf", "descriptor.pdf"), got)
		assert.Equal(t, []string{"The dataset version contains multiple data descriptors: https://files/descriptor.pdf, https://files/other.pdf - picking the first one"}, u.Errors())
	})

	t.Run("full documentation file wins", func(t *testing.T) {
		u := NewUtils(nil)
		dv := &model.DatasetVersionV3{
			SpecialFiles:          []model.File{descriptor},
			FullDocumentationFile: &model.File{IRI: "https://files/doc.pdf", Name: "doc.pdf"},
		}
		assert.Equal(t, model.NewLink("https://files/doc.pdf", "doc.pdf"), dataDescriptor(dv, u))
		assert.Len(t, u.Errors(), 1)
	})

	t.Run("documentation url without descriptor", func(t *testing.T) {
		dv := &model.DatasetVersionV3{FullDocumentationURL: "https://docs.example.org"}
		assert.Equal(t, model.NewLink("https://docs.example.org", "https://docs.example.org"), dataDescriptor(dv, NewUtils(nil)))
	})

	assert.Nil(t, dataDescriptor(&model.DatasetVersionV3{}, NewUtils(nil)))
}

func TestPreviews(t *testing.T) {
	dv := &model.DatasetVersionV3{
		SpecialFiles: []model.File{
			{IRI: "https://files/movie.mp4", Roles: []string{fileRolePreview}, ContentDescription: "A movie"},
			{IRI: "https://files/movie.png", Roles: []string{fileRolePreview}},
			{IRI: "https://files/section.JPG", Roles: []string{fileRoleScreenshot}},
			{IRI: "https://files/lonely.gif", Roles: []string{fileRolePreview}, ContentDescription: "Alone"},
			{IRI: "https://files/ignored.png", Roles: []string{fileRoleDataDescriptor}},
		},
		ServiceLinksFromFiles: []model.ServiceLink{
			{URL: "https://viewer/section", Service: "LocaliZoom", Label: "section", File: &model.File{IRI: "https://files/section.nii"}},
		},
	}

	got := previews(dv)
	assert.Equal(t, []*model.PreviewObject{
		{VideoURL: "https://files/movie.mp4", ImageURL: "https://files/movie.png", Description: "A movie"},
		{ImageURL: "https://files/section.JPG", Description: "section", Link: model.NewLink("https://viewer/section", "Open section in LocaliZoom")},
		{ImageURL: "https://files/lonely.gif", Description: "Alone"},
	}, got)
}

func TestInputAndOutputData(t *testing.T) {
	dv := &model.DatasetVersionV3{
		InputDOIs: []model.DOI{
			{Identifier: "https://doi.org/10.1/known", ResearchProduct: &model.ResearchProductVersionRef{ID: kgInstances + "in1", FullName: "Known", VersionIdentifier: "1"}},
			{Identifier: "https://doi.org/10.1/external"},
		},
		InputURLs:                   []string{"https://data.example.org", "https://doi.org/10.1/external"},
		InputFromFiles:              []model.ResearchProductVersionRef{{ID: kgInstances + "in1", FullName: "Duplicate"}},
		InputFromBrainAtlasVersions: []model.ResearchProductVersionRef{{ID: kgInstances + "atlas", FullName: "Atlas", VersionIdentifier: "3.0"}},
		OutputFromReverseInputFiles: []model.ResearchProductVersionRef{{ID: kgInstances + "out", FallbackName: "Derived"}},
	}

	assert.Equal(t, []*model.InternalReference{
		{Value: "Atlas 3.0"},
		model.NewReference("in1", "Known 1"),
	}, versionRefs(inputResearchProducts(dv), true))
	assert.Equal(t, []*model.ExternalReference{
		model.NewLink("https://data.example.org", "https://data.example.org"),
		model.NewLink("https://doi.org/10.1/external", "https://doi.org/10.1/external"),
	}, externalInputData(dv))
	assert.Equal(t, []*model.InternalReference{model.NewReference("out", "Derived")}, versionRefs(outputResearchProducts(dv), true))
}

func TestDatasetVersionTranslator_StudyTargetsAndSpecimens(t *testing.T) {
	dv := model.DatasetVersionV3{
		InstanceV3: model.InstanceV3{ID: kgInstances + "dv"},
		StudyTarget: []model.StudyTarget{
			{AnatomicalLocation: model.AnatomicalLocation{ID: kgInstances + "v1", FullName: "V1", BrainAtlas: "Julich"}, StudyTargetType: []string{model.OpenMINDSRoot + "sands/ParcellationEntity"}},
			{AnatomicalLocation: model.AnatomicalLocation{ID: kgInstances + "sp", FullName: "Mus musculus"}, StudyTargetType: []string{model.OpenMINDSRoot + "controlledTerms/Species"}},
		},
		StudiedSpecimen: []model.StudiedSpecimen{
			{
				ID:                 kgInstances + "s1",
				InternalIdentifier: "sub-01",
				Type:               []string{model.OpenMINDSRoot + "core/Subject"},
				Species:            []model.SpeciesOrStrain{{FullNameRef: model.FullNameRef{ID: kgInstances + "mm", FullName: "Mus musculus"}}},
			},
		},
	}

	d, _ := translateDatasetVersion(t, dv, model.StageReleased)

	assert.Equal(t, []*model.InternalReference{{Value: "V1 (Julich)"}}, d.StudiedBrainRegion)
	assert.Equal(t, []*model.InternalReference{model.NewReference("sp", "Mus musculus")}, d.StudyTargets)
	require.NotNil(t, d.SpecimenBySubject)
	assert.Equal(t, []string{"s1"}, d.SpecimenIDs)
	assert.Equal(t, []*model.Value[string]{model.NewValue("Mus musculus")}, d.SpeciesFilter)
}
