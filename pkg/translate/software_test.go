package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func TestSoftwareTranslator(t *testing.T) {
	src := model.SoftwareV3{
		InstanceV3: model.InstanceV3{ID: kgInstances + "sw", Identifier: []string{kgInstances + "sw"}},
		Title:      "NEST",
		HowToCite:  "Cite NEST",
		Versions: []model.Version{
			{ID: kgInstances + "v3", VersionIdentifier: "3.0", IsNewVersionOf: "2.0"},
			{ID: kgInstances + "v2", VersionIdentifier: "2.0"},
		},
	}

	target, err := SoftwareTranslator{}.Translate(context.Background(), src, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	s, ok := target.(*model.SoftwareOverview)
	require.True(t, ok)

	assert.Equal(t, []string{"sw", "Software/sw"}, s.Identifier)
	assert.Equal(t, model.NewValue("Software Overview"), s.Category)
	assert.Equal(t, "NEST", s.TitleValue())
	assert.Equal(t, model.NewValue("Cite NEST"), s.CustomCitation)
	assert.Nil(t, s.CitationHint)
	assert.Equal(t, []model.Children[model.VersionEntry]{
		{Children: model.VersionEntry{Version: model.NewReference("v2", "2.0")}},
		{Children: model.VersionEntry{Version: model.NewReference("v3", "3.0")}},
	}, s.SoftwareVersions)
}

func softwareVersionFixture() model.SoftwareVersionV3 {
	return model.SoftwareVersionV3{
		ProductVersion: model.ProductVersion{
			InstanceV3: model.InstanceV3{
				ID:         kgInstances + "v2",
				Identifier: []string{kgInstances + "v2"},
				Type:       []string{SoftwareVersionType},
			},
			Version:  "2.0",
			Projects: []model.FullNameRef{{ID: kgInstances + "proj", FullName: "HBP"}},
		},
		Software: &model.ProductVersions{
			ID:       kgInstances + "sw",
			FullName: "NEST",
			Homepage: "https://nest-simulator.org",
			Projects: []model.FullNameRef{{ID: kgInstances + "proj", FullName: "HBP"}},
			Versions: []model.Version{
				{ID: kgInstances + "v3", VersionIdentifier: "3.0", IsNewVersionOf: "2.0"},
				{ID: kgInstances + "v2", VersionIdentifier: "2.0"},
			},
		},
	}
}

func TestSoftwareVersionTranslator(t *testing.T) {
	sv := softwareVersionFixture()
	sv.Swhid = "swh:1:dir:abc"
	sv.License = []model.License{{ExternalRef: model.ExternalRef{URL: "https://spdx.org/licenses/GPL-2.0", Label: "GNU GPL 2"}, ShortName: "GPL-2.0"}}
	sv.Copyright = &model.Copyright{Year: "2004", Holder: []model.PersonOrOrganizationRef{{FullName: "NEST Initiative"}, {FamilyName: "Doe", GivenName: "Jane"}}}
	sv.Components = []model.SoftwareComponent{
		{ID: kgInstances + "c1", FullName: "PyNEST", VersionIdentifier: "2.0"},
		{ID: kgInstances + "c2", FallbackFullName: "libnest"},
	}
	sv.Requirement = []string{"python >= 3.8", " "}

	target, err := SoftwareVersionTranslator{}.Translate(context.Background(), sv, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	s, ok := target.(*model.SoftwareVersion)
	require.True(t, ok)

	assert.Equal(t, []string{"v2", "Software/v2"}, s.Identifier)
	assert.Equal(t, model.NewValue("Software"), s.Category)
	assert.Equal(t, "NEST", s.TitleValue())
	assert.Equal(t, "2.0", s.Version)
	assert.False(t, s.IsSearchable())
	assert.Equal(t, []*model.InternalReference{
		model.NewReference("v2", "2.0"),
		model.NewReference("v3", "3.0"),
		model.NewReference("sw", versionOverviewLabel),
	}, s.Versions)
	assert.Nil(t, s.Citation)
	assert.Equal(t, model.NewValue("swh:1:dir:abc"), s.CustomCitation)
	assert.Equal(t, []*model.ExternalReference{model.NewLink("https://spdx.org/licenses/GPL-2.0", "GNU GPL 2")}, s.License)
	assert.Equal(t, []*model.Value[string]{model.NewValue("GPL-2.0")}, s.LicenseForFilter)
	assert.Equal(t, model.NewValue("2004 NEST Initiative, Doe, J."), s.Copyright)
	assert.Equal(t, []*model.InternalReference{model.NewReference("proj", "HBP")}, s.Projects)
	assert.Equal(t, model.NewLink("https://nest-simulator.org", "https://nest-simulator.org"), s.Homepage)
	assert.Equal(t, []*model.Value[string]{model.NewValue("python >= 3.8")}, s.Requirements)
	assert.Equal(t, []*model.InternalReference{
		model.NewReference("c1", "PyNEST 2.0"),
		model.NewReference("c2", "libnest"),
	}, s.Components)
}

func TestSoftwareVersionTranslator_LatestVersionIsSearchable(t *testing.T) {
	sv := softwareVersionFixture()
	sv.ID = kgInstances + "v3"
	sv.DOI = "10.5281/zenodo.1"
	sv.Swhid = "swh:1:dir:abc"

	target, err := SoftwareVersionTranslator{}.Translate(context.Background(), sv, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	s := target.(*model.SoftwareVersion)

	assert.True(t, s.IsSearchable())
	assert.Equal(t, model.NewValue("10.5281/zenodo.1"), s.Citation)
	assert.Nil(t, s.CustomCitation)
}

func TestSoftwareSupport(t *testing.T) {
	tests := []struct {
		name     string
		channels []string
		want     []*model.ExternalReference
	}{
		{
			name:     "web channels win",
			channels: []string{"help@nest.org", " https://forum.nest.org "},
			want:     []*model.ExternalReference{model.NewLink("https://forum.nest.org", "https://forum.nest.org")},
		},
		{
			name:     "mail only",
			channels: []string{"help@nest.org", "irc"},
			want:     []*model.ExternalReference{model.NewLink("mailto:help@nest.org", "help@nest.org")},
		},
		{
			name: "none",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, softwareSupport(tt.channels))
		})
	}
}

func TestFileFormats(t *testing.T) {
	entries, names := fileFormats([]model.FileFormat{
		{ID: kgInstances + "nwb", FullName: "NWB", FileExtensions: []string{".nwb"}},
		{ID: kgInstances + "csv", FullName: "CSV", FileExtensions: []string{".csv"}, RelatedMediaType: "text/csv"},
	})

	require.Len(t, entries, 2)
	assert.Equal(t, model.FileFormatEntry{
		Name:             model.NewReference("csv", "CSV"),
		FileExtensions:   []*model.Value[string]{model.NewValue(".csv")},
		RelatedMediaType: model.NewLink("text/csv", "text/csv"),
	}, entries[0].Children)
	assert.Equal(t, model.NewReference("nwb", "NWB"), entries[1].Children.Name)
	assert.Nil(t, entries[1].Children.RelatedMediaType)
	assert.Equal(t, []*model.Value[string]{model.NewValue("NWB"), model.NewValue("CSV")}, names)

	entries, names = fileFormats(nil)
	assert.Nil(t, entries)
	assert.Nil(t, names)
}

func TestCopyright(t *testing.T) {
	tests := []struct {
		name string
		in   *model.Copyright
		want *model.Value[string]
	}{
		{name: "absent"},
		{name: "year only", in: &model.Copyright{Year: "2020"}, want: model.NewValue("2020")},
		{
			name: "holders",
			in:   &model.Copyright{Year: "2020", Holder: []model.PersonOrOrganizationRef{{FullName: "EPFL"}, {FullName: "FZJ"}}},
			want: model.NewValue("2020 EPFL, FZJ"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, copyright(tt.in))
		})
	}
}
