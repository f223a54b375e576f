package translate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// SortVersions orders versions along their "is new version of" chain, oldest
// first. Versions not reachable from the chain start are appended. When the
// chain has several starts, or is circular, the problem is reported and the
// versions are returned in natural order with ok set to false.
func SortVersions(versions []model.Version, u *Utils) (sorted []model.Version, ok bool) {
	natural := naturalOrder(versions)
	if len(versions) == 0 {
		return natural, true
	}

	var roots []*model.Version
	for i := range versions {
		if versions[i].IsNewVersionOf == "" {
			roots = append(roots, &versions[i])
		}
	}
	if len(roots) > 1 {
		reportAmbiguous(u, roots)
		return natural, false
	}

	var current *model.Version
	if len(roots) == 1 {
		current = roots[0]
	}
	seen := map[string]struct{}{}
	for current != nil {
		if _, dup := seen[current.ID]; dup || current.VersionIdentifier == "" {
			reportVersionError(u, "Circular dependency detected in versions - sorting by natural order: %s", versions)
			return natural, false
		}
		seen[current.ID] = struct{}{}
		sorted = append(sorted, *current)

		var next []*model.Version
		for i := range versions {
			if versions[i].IsNewVersionOf == current.VersionIdentifier {
				next = append(next, &versions[i])
			}
		}
		switch len(next) {
		case 0:
			current = nil
		case 1:
			current = next[0]
		default:
			reportAmbiguous(u, next)
			current = nil
		}
	}
	if len(sorted) == 0 {
		reportVersionError(u, "Circular dependency detected in versions - sorting by natural order: %s", versions)
		return natural, false
	}
	for _, v := range natural {
		if _, ok := seen[v.ID]; !ok {
			sorted = append(sorted, v)
		}
	}
	return sorted, true
}

func reportAmbiguous(u *Utils, candidates []*model.Version) {
	if u == nil {
		return
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	u.AddError("Ambiguous new versions detected. This is not valid. %s", strings.Join(ids, ", "))
}

func reportVersionError(u *Utils, format string, versions []model.Version) {
	if u == nil {
		return
	}
	ids := make([]string, 0, len(versions))
	for _, v := range versions {
		ids = append(ids, v.ID)
	}
	u.AddError(format, strings.Join(ids, ", "))
}

// naturalOrder sorts by version identifier, then id
func naturalOrder(versions []model.Version) []model.Version {
	result := append([]model.Version(nil), versions...)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].VersionIdentifier != result[j].VersionIdentifier {
			return result[i].VersionIdentifier < result[j].VersionIdentifier
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// versionLabel renders a version reference label
func versionLabel(v model.Version) string {
	if blank(v.VersionIdentifier) {
		return model.UUIDOf(v.ID)
	}
	return v.VersionIdentifier
}

func versionRef(v model.Version) *model.InternalReference {
	return model.NewReference(model.UUIDOf(v.ID), versionLabel(v))
}

// versionEntries lists the versions of a product overview, oldest first
func versionEntries(versions []model.Version, u *Utils) []model.Children[model.VersionEntry] {
	sorted, _ := SortVersions(versions, u)
	result := make([]model.Children[model.VersionEntry], 0, len(sorted))
	for _, v := range sorted {
		entry := model.VersionEntry{Version: model.NewReference(model.UUIDOf(v.ID), v.VersionIdentifier)}
		if v.VersionInnovation != "" {
			entry.Innovation = model.NewValue(v.VersionInnovation)
		}
		result = append(result, model.Children[model.VersionEntry]{Children: entry})
	}
	return result
}

// siblingVersions references every version of a product followed by the
// product overview. ok is false when the versions could not be ordered.
func siblingVersions(productID string, versions []model.Version, u *Utils) (refs []*model.InternalReference, sorted []model.Version, ok bool) {
	sorted, ok = SortVersions(versions, u)
	for _, v := range sorted {
		refs = append(refs, model.NewReference(model.UUIDOf(v.ID), v.VersionIdentifier))
	}
	refs = append(refs, overviewRef(productID))
	return refs, sorted, ok
}

func overviewRef(productID string) *model.InternalReference {
	return model.NewReference(model.UUIDOf(productID), versionOverviewLabel)
}

// effectiveReleaseDate prefers the declared release date once it has passed
func effectiveReleaseDate(u *Utils, declared, firstReleased *time.Time) *time.Time {
	if declared != nil && declared.Before(u.Now()) {
		return declared
	}
	return firstReleased
}

// versionedTitle appends the version to the name unless the product has
// several versions, which are listed separately
func versionedTitle(name, fallback, version string, multipleVersions bool) string {
	if blank(name) {
		name = fallback
	}
	if blank(name) {
		return ""
	}
	if multipleVersions || blank(version) {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, version)
}
