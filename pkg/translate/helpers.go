package translate

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// CurationDisclaimer is shown on documents curated by the EBRAINS curation team
const CurationDisclaimer = "Please alert us at [curation-support@ebrains.eu](mailto:curation-support@ebrains.eu) for errors or quality concerns regarding the dataset, so we can forward this information to the Data Custodian responsible."

const dataProxyURL = "https://data-proxy.ebrains.eu/"

var versionInnovationDefaults = map[string]struct{}{
	"this is the first version of this research product.": {},
	"this is the first version of this dataset.":          {},
	"this is the first version of this research product":  {},
	"this is the first version of this dataset":           {},
}

var emailAddress = regexp.MustCompile(`^(.+)@(\S+)$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// value wraps s, nil when blank
func value(s string) *model.Value[string] {
	if blank(s) {
		return nil
	}
	return model.NewValue(s)
}

// values wraps the non blank strings, nil when none
func values(ss []string) []*model.Value[string] {
	var result []*model.Value[string]
	for _, s := range ss {
		if !blank(s) {
			result = append(result, model.NewValue(s))
		}
	}
	return result
}

func sortedValues(ss []string) []*model.Value[string] {
	sorted := append([]string(nil), ss...)
	sort.Strings(sorted)
	return values(sorted)
}

func dateValue(t *time.Time) *model.Value[string] {
	if t == nil {
		return nil
	}
	return model.NewValue(model.ISODate(*t))
}

// link creates an external reference labelled with label, or with the url itself
func link(u, label string) *model.ExternalReference {
	if blank(u) {
		return nil
	}
	if blank(label) {
		label = u
	}
	return model.NewLink(u, label)
}

func links(refs []model.ExternalRef) []*model.ExternalReference {
	var result []*model.ExternalReference
	for _, r := range refs {
		if l := link(r.URL, r.Label); l != nil {
			result = append(result, l)
		}
	}
	return result
}

func fullNameRefs(items []model.FullNameRef) []*model.InternalReference {
	if len(items) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(items))
	for _, i := range items {
		result = append(result, i.Ref())
	}
	return result
}

func personRefs(items []model.PersonOrOrganizationRef) []*model.InternalReference {
	if len(items) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(items))
	for _, i := range items {
		result = append(result, i.Ref())
	}
	return result
}

// versionRefs references research product versions, optionally sorted by label
func versionRefs(items []model.ResearchProductVersionRef, sorted bool) []*model.InternalReference {
	if len(items) == 0 {
		return nil
	}
	result := make([]*model.InternalReference, 0, len(items))
	for _, i := range items {
		result = append(result, i.Ref())
	}
	if sorted {
		sortRefs(result)
	}
	return result
}

func sortRefs(rs []*model.InternalReference) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Less(rs[j]) })
}

// distinctRefs drops repeated references keeping the first occurrence
func distinctRefs(rs []*model.InternalReference) []*model.InternalReference {
	type key struct{ reference, value string }
	seen := map[key]struct{}{}
	var result []*model.InternalReference
	for _, r := range rs {
		if r == nil {
			continue
		}
		k := key{r.Reference, r.Value}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, r)
	}
	return result
}

// FormattedDigitalIdentifier renders a publication as markdown: the formatted
// citation when available followed by a link to the identifier
func FormattedDigitalIdentifier(ctx context.Context, u *Utils, identifier string, kind model.DigitalIdentifierType) string {
	if blank(identifier) {
		return ""
	}
	switch kind {
	case model.IdentifierDOI:
		absolute := identifier
		if !(strings.Contains(identifier, "http") && strings.Contains(identifier, "doi.org")) {
			absolute = fmt.Sprintf("https://doi.org/%s", identifier)
		}
		citation := u.Citation(ctx, absolute, "apa", "text/x-bibliography")
		simple := identifier
		if parts := strings.Split(absolute, "doi.org/"); len(parts) == 2 {
			simple = parts[1]
		}
		absolute = strings.NewReplacer("<", "%3C", ">", "%3E").Replace(absolute)
		doiLink := fmt.Sprintf("[DOI: %s]\n[DOI: %s]: %s", simple, simple, absolute)
		if citation != "" {
			return fmt.Sprintf("%s\n%s", citation, doiLink)
		}
		return doiLink
	case model.IdentifierHandle:
		return fmt.Sprintf("[HANDLE: %s]\n[HANDLE: %s]: %s", identifier, identifier, identifier)
	}
	return ""
}

// Citation is the citation part of a research product document
type Citation struct {
	Citation       *model.Value[string]
	CustomCitation *model.Value[string]
	DOI            *model.Value[string]
}

// HandleCitation decides how a research product is cited. A custom citation
// text wins over the DOI.
func HandleCitation(doi, howToCite string) Citation {
	var c Citation
	if !blank(howToCite) {
		c.CustomCitation = model.NewValue(howToCite)
	}
	if !blank(doi) {
		stripped := model.StripDOIPrefix(doi)
		c.DOI = model.NewValue(stripped)
		if blank(howToCite) {
			c.Citation = model.NewValue(stripped)
		}
	}
	return c
}

// EmbargoMessage explains an embargo. In-progress documents link the data
// proxy bucket of the repository when it has one.
func EmbargoMessage(stage model.Stage, typeName string, repo *model.FileRepository) string {
	if repo == nil || blank(repo.IRI) {
		return ""
	}
	message := fmt.Sprintf("This %s is temporarily under embargo. It will become available for download after the embargo period.", typeName)
	if stage != model.StageInProgress {
		return message
	}
	if bucket := dataProxyBucketURL(repo.IRI); bucket != "" {
		message += fmt.Sprintf(" <br/><br/>If you are an authenticated user, <a href=\"%s\" target=\"_blank\"> you should be able to access the data here</a>.", bucket)
	}
	return message
}

func dataProxyBucketURL(iri string) string {
	for _, prefix := range []string{
		"https://data-proxy.ebrains.eu/api/v1/buckets/",
		"https://data-proxy.ebrains.eu/api/v1/public/buckets/",
	} {
		if strings.HasPrefix(iri, prefix) {
			return dataProxyURL + strings.TrimPrefix(iri, prefix)
		}
	}
	return ""
}

// ControlledAccessMessage explains how to request access to controlled data
func ControlledAccessMessage(id, containerURL string) string {
	if containerURL != "" && !strings.Contains(containerURL, "data-proxy.ebrains.eu") && !strings.Contains(containerURL, "object.cscs.ch") {
		return fmt.Sprintf("<a href=\"%s\" target=\"_blank\">%s</a>", containerURL, containerURL)
	}
	return fmt.Sprintf("This data requires you to explicitly <a href=\"https://data-proxy.ebrains.eu/datasets/%s\" target=\"_blank\">request access</a> with your EBRAINS account. If you don't have such an account yet, please <a href=\"https://ebrains.eu/register/\" target=\"_blank\">register</a>.", id)
}

// RestrictedAccessMessage links the access request form of data hosted by its provider
func RestrictedAccessMessage(title, id string) string {
	form := fmt.Sprintf("https://nettskjema.no/a/127835?CBDatasetTitle=%s&LCKDatasetTitle=true&CBDatasetID=%s&LCKDatasetID=true", url.QueryEscape(title), id)
	return fmt.Sprintf("These data are access restricted and hosted by the data provider. <a class=\"btn btn-secondary\" style=color:#fff href=\"%s\" target=\"_blank\">Request access</a>", form)
}

// Stats renders the progress of a paged run: "120 out of 400, 30%"
func Stats(from, pageSize, total int) string {
	done := from + pageSize
	percentage := "unknown%"
	if pageSize > 0 && total > 0 {
		percentage = fmt.Sprintf("%d%%", int(math.Round(100.0*float64(done)/float64(total))))
	}
	return fmt.Sprintf("%d out of %d, %s", done, total, percentage)
}

// supportChannel turns e-mail addresses into mailto links
func supportChannel(channel string) *model.ExternalReference {
	c := strings.TrimSpace(channel)
	if c == "" {
		return nil
	}
	if !strings.HasPrefix(c, "http") && emailAddress.MatchString(c) {
		return model.NewLink("mailto:"+c, c)
	}
	return model.NewLink(c, c)
}

// displaySize renders a byte count as "12 MB", rounding down
func displaySize(bytes int64) string {
	units := []struct {
		name string
		size int64
	}{
		{"EB", 1 << 60},
		{"PB", 1 << 50},
		{"TB", 1 << 40},
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
	}
	for _, u := range units {
		if bytes/u.size > 0 {
			return fmt.Sprintf("%d %s", bytes/u.size, u.name)
		}
	}
	return fmt.Sprintf("%d bytes", bytes)
}

func isDefaultVersionInnovation(s string) bool {
	_, ok := versionInnovationDefaults[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// queryBuilderText invites the reader to query the instance on the graph
func queryBuilderText(semanticType, id string) *model.Value[string] {
	text := fmt.Sprintf("To make programmatic use of the (meta-)data of this resource, please first design your own query on the EBRAINS Knowledge Graph (see the <a href=\"https://docs.kg.ebrains.eu/9b511d36d7608eafc94ea43c918f16b6/tutorials.html\" target=\"_blank\">tutorial</a> on how to achieve this)\n\n"+
		"Once defined, you can save the query and use it either via the official <a href=\"https://core.kg.ebrains.eu/swagger-ui.html\" target=\"_blank\">EBRAINS KG API</a> or by using the convenient EBRAINS KG Core SDKs. For more information, please visit <a href=\"https://docs.kg.ebrains.eu\" target=\"_blank\">the main documentation of KG</a>.\n\n"+
		"<a href=\"https://query.kg.ebrains.eu/queries?type=%s&instanceId=%s\" class=\"btn btn-secondary\" style=\"color:#fff\" target=\"_blank\">Build your own query</a>\n",
		url.QueryEscape(semanticType), id)
	return model.NewValue(text)
}
