package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

func TestControlledTermTranslator(t *testing.T) {
	term := model.ControlledTermV3{
		InstanceV3: model.InstanceV3{
			ID:         kgInstances + "t1",
			Identifier: []string{kgInstances + "t1"},
			Type:       []string{controlledTermNamespace + "UBERONParcellation"},
		},
		Name:               "hippocampus",
		Definition:         "A part of the brain",
		Synonym:            []string{"Ammon's horn"},
		KnowledgeSpaceLink: "https://knowledge-space.org/hippocampus",
		InterlexIdentifier: "http://uri.interlex.org/base/ilx_0105021",
	}

	target, err := ControlledTermTranslator{}.Translate(context.Background(), term, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	c, ok := target.(*model.ControlledTerm)
	require.True(t, ok)

	assert.Equal(t, "t1", c.ID)
	assert.Equal(t, model.NewValue("UBERON Parcellation"), c.Category)
	assert.Equal(t, "hippocampus", c.TitleValue())
	assert.Equal(t, model.NewValue("A part of the brain"), c.Definition)
	assert.Equal(t, []*model.ExternalReference{
		model.NewLink("http://uri.interlex.org/base/ilx_0105021", "Interlex"),
		model.NewLink("https://knowledge-space.org/hippocampus", "Knowledge Space"),
	}, c.ExternalDefinitions)
	assert.Equal(t, []*model.Value[string]{model.NewValue("Ammon's horn")}, c.Synonyms)
}

func TestControlledTermTranslator_WithoutDefinition(t *testing.T) {
	term := model.ControlledTermV3{InstanceV3: model.InstanceV3{ID: kgInstances + "t1"}, Name: "bare", Synonym: []string{"x"}}

	target, err := ControlledTermTranslator{}.Translate(context.Background(), term, model.StageReleased, false, NewUtils(nil))
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestControlledTermCategoryOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "Controlled Term"},
		{in: controlledTermNamespace + "Species", want: "Species"},
		{in: controlledTermNamespace + "AgeCategory", want: "Age Category"},
		{in: controlledTermNamespace + "MetaDataModelType", want: "Meta Data Model Type"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, controlledTermCategoryOf(tt.in), tt.in)
	}
}

func TestControlledTermTypes(t *testing.T) {
	types := ControlledTermTypes()
	assert.Len(t, types, len(controlledTermNames))
	assert.Contains(t, types, controlledTermNamespace+"Technique")
}
