package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// OpenMINDSRoot prefixes all openMINDS semantic types
	OpenMINDSRoot = "https://openminds.ebrains.eu/"
	// OpenMINDSInstances prefixes openMINDS controlled instances
	OpenMINDSInstances = "https://openminds.ebrains.eu/instances"
)

// UUIDOf returns the trailing path segment of an instance IRI
func UUIDOf(id string) string {
	if id == "" {
		return ""
	}
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// UUIDsOf maps IRIs to their trailing segments
func UUIDsOf(ids []string) []string {
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if u := UUIDOf(id); u != "" {
			result = append(result, u)
		}
	}
	return result
}

// IdentifiersWithPrefix returns the uuids of ids both plain and prefixed with
// the type name ("Dataset/<uuid>")
func IdentifiersWithPrefix(prefix string, ids []string) []string {
	result := make([]string, 0, len(ids)*2)
	for _, u := range UUIDsOf(ids) {
		result = append(result, u, fmt.Sprintf("%s/%s", prefix, u))
	}
	return result
}

// IsUUID reports whether s is a valid UUID
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// TemplateQueryID derives the query identifier of a templated query for one type
func TemplateQueryID(queryID, semanticType string) string {
	ns, err := uuid.Parse(queryID)
	if err != nil {
		ns = uuid.NameSpaceURL
	}
	return uuid.NewMD5(ns, []byte(semanticType)).String()
}

// Distinct removes duplicates while keeping the first occurrence order
func Distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
