package model

import (
	"fmt"
	"strings"
)

// Stage is the visibility tier of the data read from the knowledge graph
type Stage string

const (
	// StageInProgress is the curated, not yet released data
	StageInProgress Stage = "IN_PROGRESS"
	// StageReleased is the publicly released data
	StageReleased Stage = "RELEASED"
)

const (
	// GroupCurated is the search group exposing in-progress data
	GroupCurated = "curated"
	// GroupPublic is the search group exposing released data
	GroupPublic = "public"
)

// Group returns the search group serving this stage
func (s Stage) Group() string {
	if s == StageInProgress {
		return GroupCurated
	}
	return GroupPublic
}

// StageForGroup maps a search group to its stage
func StageForGroup(group string) (Stage, error) {
	switch strings.ToLower(group) {
	case GroupCurated:
		return StageInProgress, nil
	case GroupPublic:
		return StageReleased, nil
	default:
		return "", fmt.Errorf("unknown group: %s", group)
	}
}

// ParseStage parses a stage name
func ParseStage(s string) (Stage, error) {
	switch strings.ToUpper(s) {
	case string(StageInProgress):
		return StageInProgress, nil
	case string(StageReleased):
		return StageReleased, nil
	default:
		return "", fmt.Errorf("unknown stage: %s", s)
	}
}
