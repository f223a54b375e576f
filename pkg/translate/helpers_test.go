package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func TestHandleCitation(t *testing.T) {
	tests := []struct {
		name      string
		doi       string
		howToCite string
		want      Citation
	}{
		{
			name: "doi only",
			doi:  "https://doi.org/10.25493/ABC",
			want: Citation{Citation: model.NewValue("10.25493/ABC"), DOI: model.NewValue("10.25493/ABC")},
		},
		{
			name:      "custom citation wins",
			doi:       "https://doi.org/10.25493/ABC",
			howToCite: "Doe et al.",
			want:      Citation{CustomCitation: model.NewValue("Doe et al."), DOI: model.NewValue("10.25493/ABC")},
		},
		{name: "nothing", howToCite: "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandleCitation(tt.doi, tt.howToCite))
		})
	}
}

func TestFormattedDigitalIdentifier(t *testing.T) {
	ctx := context.Background()
	u := NewUtils(&Env{Citations: staticCitations{"https://doi.org/10.1/abc": "Doe (2020). Title."}})

	assert.Equal(t,
		"Doe (2020). Title.\n[DOI: 10.1/abc]\n[DOI: 10.1/abc]: https://doi.org/10.1/abc",
		FormattedDigitalIdentifier(ctx, u, "10.1/abc", model.IdentifierDOI))
	assert.Equal(t,
		"[DOI: 10.1/xyz]\n[DOI: 10.1/xyz]: https://doi.org/10.1/xyz",
		FormattedDigitalIdentifier(ctx, u, "https://doi.org/10.1/xyz", model.IdentifierDOI))
	assert.Equal(t,
		"[HANDLE: https://hdl.handle.net/1/2]\n[HANDLE: https://hdl.handle.net/1/2]: https://hdl.handle.net/1/2",
		FormattedDigitalIdentifier(ctx, u, "https://hdl.handle.net/1/2", model.IdentifierHandle))
	assert.Empty(t, FormattedDigitalIdentifier(ctx, u, "isbn:1", ""))
	assert.Empty(t, FormattedDigitalIdentifier(ctx, u, " ", model.IdentifierDOI))
}

func TestEmbargoMessage(t *testing.T) {
	repo := &model.FileRepository{IRI: "https://data-proxy.ebrains.eu/api/v1/buckets/d-123"}

	released := EmbargoMessage(model.StageReleased, "dataset", repo)
	assert.Equal(t, "This dataset is temporarily under embargo. It will become available for download after the embargo period.", released)

	inProgress := EmbargoMessage(model.StageInProgress, "dataset", repo)
	assert.Contains(t, inProgress, released)
	assert.Contains(t, inProgress, `href="https://data-proxy.ebrains.eu/d-123"`)

	external := EmbargoMessage(model.StageInProgress, "model", &model.FileRepository{IRI: "https://example.org/data"})
	assert.NotContains(t, external, "<a")

	assert.Empty(t, EmbargoMessage(model.StageReleased, "dataset", nil))
}

func TestAccessMessages(t *testing.T) {
	assert.Contains(t, ControlledAccessMessage("abc", ""), "https://data-proxy.ebrains.eu/datasets/abc")
	assert.Contains(t, ControlledAccessMessage("abc", "https://object.cscs.ch/v1/AUTH/bucket"), "request access")
	assert.Equal(t, `<a href="https://hdg.example.org" target="_blank">https://hdg.example.org</a>`, ControlledAccessMessage("abc", "https://hdg.example.org"))

	restricted := RestrictedAccessMessage("Mouse & rat", "abc")
	assert.Contains(t, restricted, "CBDatasetTitle=Mouse+%26+rat")
	assert.Contains(t, restricted, "CBDatasetID=abc")
}

func TestStats(t *testing.T) {
	assert.Equal(t, "120 out of 400, 30%", Stats(100, 20, 400))
	assert.Equal(t, "0 out of 0, unknown%", Stats(0, 0, 0))
	assert.Equal(t, "3 out of 3, 100%", Stats(0, 3, 3))
}

func TestSupportChannel(t *testing.T) {
	assert.Equal(t, model.NewLink("mailto:help@ebrains.eu", "help@ebrains.eu"), supportChannel(" help@ebrains.eu "))
	assert.Equal(t, model.NewLink("https://support.example.org", "https://support.example.org"), supportChannel("https://support.example.org"))
	assert.Nil(t, supportChannel("  "))
}

func TestDisplaySize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{bytes: 500, want: "500 bytes"},
		{bytes: 1024, want: "1 KB"},
		{bytes: 1536, want: "1 KB"},
		{bytes: 2 << 20, want: "2 MB"},
		{bytes: 3 << 30, want: "3 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, displaySize(tt.bytes))
		})
	}
}

func TestValueHelpers(t *testing.T) {
	assert.Nil(t, value(" "))
	assert.Equal(t, model.NewValue("x"), value("x"))
	assert.Nil(t, values([]string{"", " "}))
	assert.Equal(t, []*model.Value[string]{model.NewValue("a"), model.NewValue("b")}, sortedValues([]string{"b", "a"}))
	assert.Nil(t, link("", "label"))
	assert.Equal(t, model.NewLink("https://x", "https://x"), link("https://x", ""))

	refs := distinctRefs([]*model.InternalReference{
		model.NewReference("a", "A"), nil, model.NewReference("a", "A"), model.NewReference("b", "A"),
	})
	assert.Len(t, refs, 2)
	assert.True(t, isDefaultVersionInnovation(" This is the first version of this dataset. "))
	assert.False(t, isDefaultVersionInnovation("Added new subjects"))
}

func TestQueryBuilderText(t *testing.T) {
	text := queryBuilderText(DatasetVersionType, "abc")
	assert.Contains(t, text.Value, "type=https%3A%2F%2Fopenminds.ebrains.eu%2Fcore%2FDatasetVersion&instanceId=abc")
}
