package model

import (
	"fmt"
	"strings"
)

// Ref references the instance, labelled by its full name or its uuid
func (r FullNameRef) Ref() *InternalReference {
	id := UUIDOf(r.ID)
	return NewReference(id, firstNonBlank(r.FullName, id))
}

// RefOf is the nil safe variant of FullNameRef.Ref
func RefOf(r *FullNameRef) *InternalReference {
	if r == nil {
		return nil
	}
	return r.Ref()
}

// Ref references the author or custodian by its display name
func (r PersonOrOrganizationRef) Ref() *InternalReference {
	return NewReference(UUIDOf(r.ID), PersonFullName(r.FullName, r.FamilyName, r.GivenName))
}

// Ref references a research product version labelled "<name> <version>".
// Versions of external products (Tab set) keep their label only.
func (r ResearchProductVersionRef) Ref() *InternalReference {
	id := UUIDOf(r.ID)
	name := firstNonBlank(r.FullName, r.FallbackName, id)
	if strings.TrimSpace(r.VersionIdentifier) != "" {
		name = fmt.Sprintf("%s %s", name, r.VersionIdentifier)
	}
	if r.Tab != "" {
		return NewReference("", name)
	}
	return NewReference(id, name)
}

// Ref references the location. Locations of an atlas are labelled with the
// atlas and are not linked.
func (a AnatomicalLocation) Ref() *InternalReference {
	name := firstNonBlank(a.FullName, a.FallbackName)
	switch {
	case strings.TrimSpace(a.BrainAtlas) != "":
		return NewReference("", fmt.Sprintf("%s (%s)", name, a.BrainAtlas))
	case a.BrainAtlasVersion != nil:
		atlas := fmt.Sprintf("%s %s", a.BrainAtlasVersion.FullName, a.BrainAtlasVersion.VersionIdentifier)
		return NewReference("", fmt.Sprintf("%s (%s)", name, atlas))
	}
	return FullNameRef{ID: a.ID, FullName: name}.Ref()
}

// VersionedRef references the location like a research product version
func (a AnatomicalLocation) VersionedRef() *InternalReference {
	return ResearchProductVersionRef{
		ID:                a.ID,
		FullName:          a.FullName,
		FallbackName:      a.FallbackName,
		VersionIdentifier: a.VersionIdentifier,
	}.Ref()
}

// StripDOIPrefix removes everything up to the "10." registrant part of a DOI
func StripDOIPrefix(doi string) string {
	if i := strings.Index(doi, "/10."); i >= 0 {
		return doi[i+1:]
	}
	return doi
}

// AbbreviateGivenName turns "John Peter" into "J. P."
func AbbreviateGivenName(givenName string) string {
	parts := strings.Fields(givenName)
	abbreviated := make([]string, 0, len(parts))
	for _, p := range parts {
		r := []rune(p)
		abbreviated = append(abbreviated, string(r[0])+".")
	}
	return strings.Join(abbreviated, " ")
}

// PersonFullName renders "Family, G. N." unless a full name is known
func PersonFullName(fullName, familyName, givenName string) string {
	if strings.TrimSpace(fullName) != "" {
		return fullName
	}
	if familyName == "" {
		return ""
	}
	if givenName == "" {
		return familyName
	}
	return fmt.Sprintf("%s, %s", familyName, AbbreviateGivenName(givenName))
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
