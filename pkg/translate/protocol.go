package translate

import (
	"context"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// ProtocolType is the semantic type of openMINDS protocols
	ProtocolType = model.OpenMINDSRoot + "core/Protocol"
	// BehavioralProtocolType is the semantic type of openMINDS behavioral protocols
	BehavioralProtocolType = model.OpenMINDSRoot + "core/BehavioralProtocol"

	protocolQueryID           = "a850a038-6861-4f46-a8e9-ef1ca1198efb"
	behavioralProtocolQueryID = "7aa02826-65f3-472b-94bc-46e1288d6f47"
)

// ProtocolDisclaimer is shown on protocols, which have custodians but no authors
const ProtocolDisclaimer = "Please alert us at [curation-support@ebrains.eu](mailto:curation-support@ebrains.eu) for errors or quality concerns, so we can forward this information to the custodian responsible."

// ProtocolTranslator produces the "Protocol" documents
type ProtocolTranslator struct{}

// Meta implements Translator
func (ProtocolTranslator) Meta() Meta {
	return Meta{
		Name:          "protocol",
		TargetType:    model.TypeProtocol,
		Generation:    GenerationV3,
		SemanticTypes: []string{ProtocolType},
		QueryIDs:      map[string]string{ProtocolType: protocolQueryID},
	}
}

// Translate implements Translator. Datasets declaring the protocol directly
// win over the ones found through protocol executions.
func (ProtocolTranslator) Translate(ctx context.Context, src model.ProtocolV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := src.UUID()
	p := &model.Protocol{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeProtocol),
			Category:       model.NewValue("Protocol"),
			Disclaimer:     model.NewValue(ProtocolDisclaimer),
			Title:          value(src.Name),
			AllIdentifiers: src.Identifier,
			Identifier:     model.Distinct(model.UUIDsOf(src.Identifier)),
		},
		Description:  value(src.Description),
		Technique:    fullNameRefs(src.Technique),
		StimulusType: fullNameRefs(src.StimulusType),
	}
	datasets := src.DatasetsDirect
	if len(datasets) == 0 {
		datasets = src.DatasetsByExecution
	}
	p.Datasets = versionRefs(datasets, true)
	p.DescribedIn, p.DescribedInLink = describedIn(ctx, u, src.DescribedIn)
	p.QueryBuilderText = queryBuilderText(src.PrimaryType(), id)
	return p, nil
}

// BehavioralProtocolTranslator produces the "BehavioralProtocol" documents
type BehavioralProtocolTranslator struct{}

// Meta implements Translator
func (BehavioralProtocolTranslator) Meta() Meta {
	return Meta{
		Name:          "behavioralProtocol",
		TargetType:    model.TypeBehavioralProtocol,
		Generation:    GenerationV3,
		SemanticTypes: []string{BehavioralProtocolType},
		QueryIDs:      map[string]string{BehavioralProtocolType: behavioralProtocolQueryID},
	}
}

// Translate implements Translator
func (BehavioralProtocolTranslator) Translate(ctx context.Context, src model.BehavioralProtocolV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := src.UUID()
	b := &model.BehavioralProtocol{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeBehavioralProtocol),
			Category:       model.NewValue("Behavioral Protocol"),
			Disclaimer:     model.NewValue(ProtocolDisclaimer),
			Title:          value(src.Name),
			AllIdentifiers: src.Identifier,
			Identifier:     model.Distinct(model.UUIDsOf(src.Identifier)),
		},
		OfficialAbbreviation: value(src.InternalIdentifier),
		Description:          value(src.Description),
	}
	b.DescribedIn, b.DescribedInLink = describedIn(ctx, u, src.DescribedIn)
	b.QueryBuilderText = queryBuilderText(src.PrimaryType(), id)
	return b, nil
}

// describedIn renders the documentation of a protocol: a DOI is cited, a
// named file or a URL is linked
func describedIn(ctx context.Context, u *Utils, d model.DescribedIn) (*model.Value[string], *model.ExternalReference) {
	switch {
	case !blank(d.DescribedInDOI):
		return value(FormattedDigitalIdentifier(ctx, u, d.DescribedInDOI, model.IdentifierDOI)), nil
	case d.DescribedInFile != nil && !blank(d.DescribedInFile.Name) && !blank(d.DescribedInFile.IRI):
		return nil, model.NewLink(d.DescribedInFile.IRI, d.DescribedInFile.Name)
	case !blank(d.DescribedInURL):
		return nil, model.NewLink(d.DescribedInURL, d.DescribedInURL)
	}
	return nil, nil
}
