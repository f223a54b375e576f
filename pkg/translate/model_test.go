package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func TestModelTranslator(t *testing.T) {
	src := model.ModelV3{
		InstanceV3: model.InstanceV3{
			ID:         kgInstances + "m",
			Identifier: []string{kgInstances + "m"},
			Type:       []string{ModelType},
		},
		Title:            "Cerebellum network",
		DOI:              "https://doi.org/10.25493/MOD",
		Developer:        []model.PersonOrOrganizationRef{{ID: kgInstances + "p1", FamilyName: "Doe", GivenName: "Jane"}},
		StudyTarget:      []model.FullNameRef{{ID: kgInstances + "st", FullName: "cerebellum"}},
		Scope:            &model.FullNameRef{ID: kgInstances + "scope", FullName: "network"},
		AbstractionLevel: &model.FullNameRef{ID: kgInstances + "al", FullName: "spiking"},
		Versions: []model.Version{
			{ID: kgInstances + "v1", VersionIdentifier: "v1"},
		},
	}

	target, err := ModelTranslator{}.Translate(context.Background(), src, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	m, ok := target.(*model.ModelOverview)
	require.True(t, ok)

	assert.Equal(t, "m", m.ID)
	assert.Equal(t, model.NewValue(model.TypeModelVersions), m.Type)
	assert.Equal(t, model.NewValue("Model Overview"), m.Category)
	assert.Equal(t, "Cerebellum network", m.TitleValue())
	assert.Equal(t, []*model.InternalReference{model.NewReference("p1", "Doe, J.")}, m.Contributors)
	assert.Equal(t, []*model.InternalReference{model.NewReference("st", "cerebellum")}, m.StudyTarget)
	assert.Equal(t, model.NewReference("scope", "network"), m.Scope)
	assert.Equal(t, model.NewReference("al", "spiking"), m.AbstractionLevel)
	assert.Equal(t, []model.Children[model.VersionEntry]{
		{Children: model.VersionEntry{Version: model.NewReference("v1", "v1")}},
	}, m.Models)
	assert.Equal(t, model.NewValue("10.25493/MOD"), m.Citation)
	assert.Equal(t, model.NewValue(modelCitationHint), m.CitationHint)
	assert.Len(t, m.InternalReferences(), 5)
}

func modelVersionFixture() model.ModelVersionV3 {
	return model.ModelVersionV3{
		ProductVersion: model.ProductVersion{
			InstanceV3: model.InstanceV3{
				ID:         kgInstances + "v1",
				Identifier: []string{kgInstances + "v1"},
				Type:       []string{ModelVersionType},
			},
			Version:           "v1",
			VersionInnovation: "This is the first version of this research product.",
		},
		Keyword: model.StringList{"spiking", "cerebellum"},
		Model: &model.ModelVersions{
			ProductVersions: model.ProductVersions{
				ID:          kgInstances + "m",
				FullName:    "Cerebellum network",
				Description: "Parent description",
				Developer:   []model.PersonOrOrganizationRef{{ID: kgInstances + "p1", FullName: "Lab"}},
				Projects:    []model.FullNameRef{{ID: kgInstances + "proj", FullName: "HBP"}},
				Versions: []model.Version{
					{ID: kgInstances + "v2", VersionIdentifier: "v2", IsNewVersionOf: "v1"},
					{ID: kgInstances + "v1", VersionIdentifier: "v1"},
				},
			},
			StudyTarget: []model.StudyTarget{
				{
					AnatomicalLocation: model.AnatomicalLocation{ID: kgInstances + "cb", FullName: "cerebellum"},
					StudyTargetType:    modelBrainStructureTargets,
				},
				{
					AnatomicalLocation: model.AnatomicalLocation{ID: kgInstances + "mouse", FullName: "Mus musculus"},
					StudyTargetType:    []string{model.OpenMINDSRoot + "controlledTerms/Species"},
				},
			},
			Scope: &model.FullNameRef{ID: kgInstances + "scope", FullName: "network"},
		},
	}
}

func TestModelVersionTranslator(t *testing.T) {
	u := NewUtils(nil)
	target, err := ModelVersionTranslator{}.Translate(context.Background(), modelVersionFixture(), model.StageReleased, false, u)
	require.NoError(t, err)
	m, ok := target.(*model.ModelVersion)
	require.True(t, ok)

	assert.Equal(t, "v1", m.ID)
	assert.Equal(t, []string{"v1", "Model/v1"}, m.Identifier)
	assert.Equal(t, model.NewValue("Model"), m.Category)
	assert.Equal(t, "Cerebellum network", m.TitleValue())
	assert.Equal(t, "v1", m.Version)
	assert.True(t, m.IsSearchable())
	assert.Equal(t, []*model.InternalReference{
		model.NewReference("v1", "v1"),
		model.NewReference("v2", "v2"),
		model.NewReference("m", versionOverviewLabel),
	}, m.Versions)
	assert.Equal(t, model.NewReference("m", versionOverviewLabel), m.AllVersionRef)
	assert.Equal(t, model.NewValue("Parent description"), m.Description)
	assert.Nil(t, m.NewInThisVersion)
	assert.Equal(t, []*model.InternalReference{model.NewReference("p1", "Lab")}, m.Contributors)
	assert.Equal(t, []*model.InternalReference{model.NewReference("proj", "HBP")}, m.Projects)
	assert.Equal(t, []*model.InternalReference{model.NewReference("cb", "cerebellum")}, m.BrainStructures)
	assert.Equal(t, []*model.InternalReference{model.NewReference("mouse", "Mus musculus")}, m.StudyTargets)
	assert.Equal(t, []*model.InternalReference{model.NewReference("scope", "network")}, m.ModelScope)
	assert.Nil(t, m.AbstractionLevel)
	assert.Equal(t, []*model.Value[string]{model.NewValue("cerebellum"), model.NewValue("spiking")}, m.Keywords)
	assert.Empty(t, u.Errors())
}

func TestModelVersionTranslator_LatestVersionIsNotSearchable(t *testing.T) {
	mv := modelVersionFixture()
	mv.ID = kgInstances + "v2"
	mv.Version = "v2"

	target, err := ModelVersionTranslator{}.Translate(context.Background(), mv, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	assert.False(t, target.(*model.ModelVersion).IsSearchable())
}

func TestModelVersionTranslator_SingleVersionTitle(t *testing.T) {
	mv := modelVersionFixture()
	mv.FullName = "Granule cell"
	mv.Model.Versions = mv.Model.Versions[1:]

	target, err := ModelVersionTranslator{}.Translate(context.Background(), mv, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	m := target.(*model.ModelVersion)

	assert.Equal(t, "Granule cell (v1)", m.TitleValue())
	assert.Empty(t, m.Version)
	assert.Nil(t, m.AllVersionRef)
	assert.True(t, m.IsSearchable())
}

func TestModelVersionTranslator_Accessibility(t *testing.T) {
	tests := []struct {
		name          string
		accessibility string
		repo          *model.FileRepository
		check         func(t *testing.T, m *model.ModelVersion)
	}{
		{
			name:          "embeddable source",
			accessibility: freeAccess,
			repo:          &model.FileRepository{ID: kgInstances + "r", IRI: "https://modeldb.science/12345", FullName: "ModelDB"},
			check: func(t *testing.T, m *model.ModelVersion) {
				assert.Equal(t, model.NewLink("https://modeldb.science/12345", "ModelDB"), m.EmbeddedModelSource)
				assert.Nil(t, m.ExternalDownload)
				assert.Empty(t, m.FileRepositoryID)
			},
		},
		{
			name:          "external repository",
			accessibility: freeAccess,
			repo:          &model.FileRepository{ID: kgInstances + "r", IRI: "https://github.com/lab/model"},
			check: func(t *testing.T, m *model.ModelVersion) {
				assert.Equal(t, model.NewLink("https://github.com/lab/model", "https://github.com/lab/model"), m.ExternalDownload)
				assert.Nil(t, m.EmbeddedModelSource)
			},
		},
		{
			name:          "indexed repository",
			accessibility: freeAccess,
			repo:          &model.FileRepository{ID: kgInstances + "r", IRI: "https://object.cscs.ch/v1/AUTH_x/model"},
			check: func(t *testing.T, m *model.ModelVersion) {
				assert.Equal(t, "r", m.FileRepositoryID)
				assert.Nil(t, m.ExternalDownload)
			},
		},
		{
			name:          "under embargo",
			accessibility: underEmbargo,
			repo:          &model.FileRepository{ID: kgInstances + "r", IRI: "https://modeldb.science/12345"},
			check: func(t *testing.T, m *model.ModelVersion) {
				require.NotNil(t, m.Embargo)
				assert.Contains(t, m.Embargo.Value, "This model is temporarily under embargo")
				assert.Nil(t, m.EmbeddedModelSource)
				assert.Empty(t, m.FileRepositoryID)
			},
		},
		{
			name:          "no repository",
			accessibility: freeAccess,
			check: func(t *testing.T, m *model.ModelVersion) {
				assert.Nil(t, m.Embargo)
				assert.Nil(t, m.EmbeddedModelSource)
				assert.Nil(t, m.ExternalDownload)
				assert.Empty(t, m.FileRepositoryID)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mv := modelVersionFixture()
			mv.Accessibility = &model.NameWithIdentifier{Name: "access", Identifier: tt.accessibility}
			mv.FileRepository = tt.repo

			target, err := ModelVersionTranslator{}.Translate(context.Background(), mv, model.StageReleased, false, NewUtils(nil))
			require.NoError(t, err)
			m := target.(*model.ModelVersion)
			assert.Equal(t, model.NewValue("access"), m.Accessibility)
			tt.check(t, m)
		})
	}
}

func TestModelVersionTranslator_InputAndOutputData(t *testing.T) {
	mv := modelVersionFixture()
	mv.InputDOIs = []model.DOI{
		{Identifier: "10.1/in", ResearchProduct: &model.ResearchProductVersionRef{ID: kgInstances + "ds", FullName: "Recordings", VersionIdentifier: "v1"}},
		{Identifier: "10.1/external"},
	}
	mv.InputURLs = []string{"https://example.org/data"}
	mv.OutputFromReverseInputFiles = []model.ResearchProductVersionRef{{ID: kgInstances + "sw", FullName: "Analysis", VersionIdentifier: "2.0"}}

	target, err := ModelVersionTranslator{}.Translate(context.Background(), mv, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	m := target.(*model.ModelVersion)

	assert.Equal(t, []*model.InternalReference{model.NewReference("ds", "Recordings v1")}, m.InputData)
	assert.Equal(t, []*model.InternalReference{model.NewReference("sw", "Analysis 2.0")}, m.OutputData)
	assert.NotEmpty(t, m.ExternalInputData)
	assert.Contains(t, m.Badges, BadgeUsedByOthers)
	assert.Contains(t, m.Badges, BadgeUsingOthers)
}
