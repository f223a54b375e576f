package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func TestProtocolTranslator(t *testing.T) {
	byExecution := []model.ResearchProductVersionRef{{ID: kgInstances + "d9", FullName: "Executed", VersionIdentifier: "v1"}}
	tests := []struct {
		name   string
		direct []model.ResearchProductVersionRef
		want   []*model.InternalReference
	}{
		{
			name: "direct datasets win",
			direct: []model.ResearchProductVersionRef{
				{ID: kgInstances + "d2", FullName: "Beta", VersionIdentifier: "v1"},
				{ID: kgInstances + "d1", FullName: "Alpha", VersionIdentifier: "v2"},
			},
			want: []*model.InternalReference{
				model.NewReference("d1", "Alpha v2"),
				model.NewReference("d2", "Beta v1"),
			},
		},
		{
			name: "datasets through executions",
			want: []*model.InternalReference{model.NewReference("d9", "Executed v1")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := model.ProtocolV3{
				InstanceV3: model.InstanceV3{
					ID:         kgInstances + "pr",
					Identifier: []string{kgInstances + "pr"},
					Type:       []string{ProtocolType},
				},
				Name:                "Patch clamp",
				Technique:           []model.FullNameRef{{ID: kgInstances + "t", FullName: "whole cell patch clamp"}},
				DatasetsDirect:      tt.direct,
				DatasetsByExecution: byExecution,
			}

			target, err := ProtocolTranslator{}.Translate(context.Background(), src, model.StageReleased, false, NewUtils(nil))
			require.NoError(t, err)
			p, ok := target.(*model.Protocol)
			require.True(t, ok)

			assert.Equal(t, []string{"pr"}, p.Identifier)
			assert.Equal(t, model.NewValue("Protocol"), p.Category)
			assert.Equal(t, model.NewValue(ProtocolDisclaimer), p.Disclaimer)
			assert.Equal(t, "Patch clamp", p.TitleValue())
			assert.Equal(t, []*model.InternalReference{model.NewReference("t", "whole cell patch clamp")}, p.Technique)
			assert.Equal(t, tt.want, p.Datasets)
		})
	}
}

func TestBehavioralProtocolTranslator(t *testing.T) {
	src := model.BehavioralProtocolV3{
		InstanceV3:         model.InstanceV3{ID: kgInstances + "bp", Identifier: []string{kgInstances + "bp"}},
		DescribedIn:        model.DescribedIn{DescribedInURL: "https://protocols.io/view/maze"},
		Name:               "Water maze",
		InternalIdentifier: "MWM",
		Description:        "Spatial memory task",
	}

	target, err := BehavioralProtocolTranslator{}.Translate(context.Background(), src, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	b, ok := target.(*model.BehavioralProtocol)
	require.True(t, ok)

	assert.Equal(t, "bp", b.ID)
	assert.Equal(t, model.NewValue("Behavioral Protocol"), b.Category)
	assert.Equal(t, "Water maze", b.TitleValue())
	assert.Equal(t, model.NewValue("MWM"), b.OfficialAbbreviation)
	assert.Equal(t, model.NewValue("Spatial memory task"), b.Description)
	assert.Nil(t, b.DescribedIn)
	assert.Equal(t, model.NewLink("https://protocols.io/view/maze", "https://protocols.io/view/maze"), b.DescribedInLink)
	assert.Empty(t, b.InternalReferences())
}

func TestDescribedIn(t *testing.T) {
	tests := []struct {
		name      string
		in        model.DescribedIn
		wantValue *model.Value[string]
		wantLink  *model.ExternalReference
	}{
		{name: "nothing"},
		{
			name:      "doi is cited",
			in:        model.DescribedIn{DescribedInDOI: "https://doi.org/10.1/abc", DescribedInURL: "https://example.org"},
			wantValue: model.NewValue("[DOI: 10.1/abc]\n[DOI: 10.1/abc]: https://doi.org/10.1/abc"),
		},
		{
			name:     "named file is linked",
			in:       model.DescribedIn{DescribedInFile: &model.File{IRI: "https://data-proxy.ebrains.eu/p.pdf", Name: "p.pdf"}, DescribedInURL: "https://example.org"},
			wantLink: model.NewLink("https://data-proxy.ebrains.eu/p.pdf", "p.pdf"),
		},
		{
			name:     "unnamed file falls back to the url",
			in:       model.DescribedIn{DescribedInFile: &model.File{IRI: "https://data-proxy.ebrains.eu/p.pdf"}, DescribedInURL: "https://example.org"},
			wantLink: model.NewLink("https://example.org", "https://example.org"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, l := describedIn(context.Background(), NewUtils(nil), tt.in)
			assert.Equal(t, tt.wantValue, v)
			assert.Equal(t, tt.wantLink, l)
		})
	}
}
