package translate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

const (
	// SoftwareVersionType is the semantic type of openMINDS software versions
	SoftwareVersionType = model.OpenMINDSRoot + "core/SoftwareVersion"

	softwareVersionQueryID = "e1cd5cd9-f4e1-467b-82de-b5f093c2a0cf"
)

// SoftwareVersionTranslator produces the "Software" documents
type SoftwareVersionTranslator struct{}

// Meta implements Translator
func (SoftwareVersionTranslator) Meta() Meta {
	return Meta{
		Name:          "softwareVersion",
		TargetType:    model.TypeSoftware,
		Generation:    GenerationV3,
		SemanticTypes: []string{SoftwareVersionType},
		QueryIDs:      map[string]string{SoftwareVersionType: softwareVersionQueryID},
	}
}

// Translate implements Translator. Of several versions the latest one is
// listed in search results.
func (SoftwareVersionTranslator) Translate(ctx context.Context, sv model.SoftwareVersionV3, _ model.Stage, _ bool, u *Utils) (model.TargetInstance, error) {
	id := sv.UUID()
	s := &model.SoftwareVersion{
		TargetBase: model.TargetBase{
			ID:             id,
			Type:           model.NewValue(model.TypeSoftware),
			Category:       model.NewValue("Software"),
			Disclaimer:     model.NewValue(CurationDisclaimer),
			AllIdentifiers: sv.Identifier,
			Identifier:     model.Distinct(model.IdentifiersWithPrefix("Software", sv.Identifier)),
		},
		Last30DaysViews: sv.Last30DaysViews,
	}

	releaseDate := effectiveReleaseDate(u, sv.ReleaseDate, sv.FirstReleasedAt)
	s.Badges, s.Trending = badges(u, badgeInput{
		issueDate:       sv.IssueDate,
		firstRelease:    releaseDate,
		last30DaysViews: sv.Last30DaysViews,
	})
	s.FirstRelease = dateValue(releaseDate)
	s.LastRelease = dateValue(sv.LastReleasedAt)
	s.ReleasedAt = value(sv.IssueDate)
	s.ReleasedDateForSorting = value(releasedDateForSorting(sv.IssueDate, releaseDate))

	parent := sv.Software
	multipleVersions := parent != nil && len(parent.Versions) > 1
	if multipleVersions {
		s.Version = sv.Version
		versions, sorted, _ := siblingVersions(parent.ID, parent.Versions, u)
		s.Versions = versions
		s.Searchable = sorted[len(sorted)-1].ID == sv.ID
	} else {
		s.Searchable = true
	}

	fallback := ""
	if parent != nil {
		fallback = parent.FullName
	}
	s.Title = value(versionedTitle(sv.FullName, fallback, sv.Version, multipleVersions))

	developers, custodians := sv.Developer, sv.Custodian
	if parent != nil {
		if len(developers) == 0 {
			developers = parent.Developer
		}
		if len(custodians) == 0 {
			custodians = parent.Custodian
		}
	}
	s.Developers = personRefs(developers)
	s.Custodians = personRefs(custodians)

	c := HandleCitation(sv.DOI, sv.HowToCite)
	s.Citation, s.CustomCitation, s.DOI = c.Citation, c.CustomCitation, c.DOI
	if s.Citation == nil && s.CustomCitation == nil && !blank(sv.Swhid) {
		s.CustomCitation = model.NewValue(sv.Swhid)
	}

	for _, l := range sv.License {
		s.License = append(s.License, model.NewLink(l.URL, l.Label))
		if !blank(l.ShortName) {
			s.LicenseForFilter = append(s.LicenseForFilter, model.NewValue(l.ShortName))
		}
	}
	s.Copyright = copyright(sv.Copyright)

	var projects []*model.InternalReference
	projects = append(projects, fullNameRefs(sv.Projects)...)
	if parent != nil {
		projects = append(projects, fullNameRefs(parent.Projects)...)
	}
	s.Projects = distinctRefs(projects)

	switch {
	case !blank(sv.Description):
		s.Description = model.NewValue(sv.Description)
	case parent != nil:
		s.Description = value(parent.Description)
	}
	if !blank(sv.VersionInnovation) && !isDefaultVersionInnovation(sv.VersionInnovation) {
		s.NewInThisVersion = model.NewValue(sv.VersionInnovation)
	}
	s.Publications = publications(ctx, u, sv.RelatedPublications)

	s.AppCategory = fullNameRefs(sv.ApplicationCategory)
	s.OperatingSystem = fullNameRefs(sv.OperatingSystem)
	s.Devices = fullNameRefs(sv.Device)
	s.ProgrammingLanguages = fullNameRefs(sv.ProgrammingLanguage)
	s.Requirements = values(sv.Requirement)
	s.Features = fullNameRefs(sv.Feature)
	s.Languages = fullNameRefs(sv.Language)

	switch {
	case !blank(sv.Homepage):
		s.Homepage = model.NewLink(sv.Homepage, sv.Homepage)
	case parent != nil && !blank(parent.Homepage):
		s.Homepage = model.NewLink(parent.Homepage, parent.Homepage)
	}
	if !blank(sv.Repository) {
		s.SourceCode = model.NewLink(sv.Repository, sv.Repository)
	}
	for _, doc := range []string{sv.DocumentationDOI, sv.DocumentationURL, sv.DocumentationWebResource, sv.DocumentationFile} {
		if l := link(doc, doc); l != nil {
			s.Documentation = append(s.Documentation, l)
		}
	}
	s.Support = softwareSupport(sv.SupportChannel)

	s.InputFormat, s.InputFormatsForFilter = fileFormats(sv.InputFormat)
	s.OutputFormats, s.OutputFormatsForFilter = fileFormats(sv.OutputFormat)
	for _, component := range sv.Components {
		name := component.FullName
		if blank(name) {
			name = component.FallbackFullName
		}
		s.Components = append(s.Components, model.NewReference(model.UUIDOf(component.ID), strings.TrimSpace(fmt.Sprintf("%s %s", name, component.VersionIdentifier))))
	}
	s.QueryBuilderText = queryBuilderText(sv.PrimaryType(), id)
	return s, nil
}

// copyright renders "<year> <holder>, <holder>"
func copyright(c *model.Copyright) *model.Value[string] {
	if c == nil {
		return nil
	}
	holders := make([]string, 0, len(c.Holder))
	for _, h := range c.Holder {
		if name := model.PersonFullName(h.FullName, h.FamilyName, h.GivenName); name != "" {
			holders = append(holders, name)
		}
	}
	return value(strings.TrimSpace(fmt.Sprintf("%s %s", c.Year, strings.Join(holders, ", "))))
}

// softwareSupport lists the web support channels. E-mail addresses are only
// listed when there is no web channel.
func softwareSupport(channels []string) []*model.ExternalReference {
	var web, mail []*model.ExternalReference
	for _, channel := range channels {
		c := strings.TrimSpace(channel)
		switch {
		case strings.HasPrefix(c, "http"):
			web = append(web, model.NewLink(c, c))
		case strings.Contains(c, "@"):
			mail = append(mail, model.NewLink("mailto:"+c, c))
		}
	}
	if len(web) > 0 {
		return web
	}
	return mail
}

// fileFormats lists formats sorted by name, with their names for filtering
func fileFormats(formats []model.FileFormat) ([]model.Children[model.FileFormatEntry], []*model.Value[string]) {
	if len(formats) == 0 {
		return nil, nil
	}
	entries := make([]model.Children[model.FileFormatEntry], 0, len(formats))
	var names []string
	for _, f := range formats {
		entry := model.FileFormatEntry{
			Name:           model.FullNameRef{ID: f.ID, FullName: f.FullName}.Ref(),
			FileExtensions: values(f.FileExtensions),
		}
		if !blank(f.RelatedMediaType) {
			entry.RelatedMediaType = model.NewLink(f.RelatedMediaType, f.RelatedMediaType)
		}
		entries = append(entries, model.Children[model.FileFormatEntry]{Children: entry})
		names = append(names, f.FullName)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Children.Name.Value < entries[j].Children.Name.Value
	})
	return entries, values(names)
}
