package translate

import (
	"time"

	"github.com/platinummonkey/kgsearch/pkg/model"
)

// Badge names
const (
	BadgeNew                 = "isNew"
	BadgeTrending            = "isTrending"
	BadgeLearningResource    = "isLearningResourceAvailable"
	BadgeLinkedToImageViewer = "isLinkedToImageViewer"
	BadgeIntegratedWithAtlas = "isIntegratedWithAtlas"
	BadgeFollowingStandards  = "isFollowingStandards"
	BadgeUsedInLivePaper     = "isUsedInLivePaper"
	BadgeUsedByOthers        = "isUsedByOthers"
	BadgeUsingOthers         = "isUsingOthers"
)

const (
	newBadgeWindow  = 8 * 24 * time.Hour
	issueDateLayout = "2006-01-02"
)

var (
	imageViewerServices = []string{"LocaliZoom", "Multi-Image-OSd"}
	atlasServices       = []string{"Neuroglancer", "siibra-explorer"}
)

var standardContentTypes = []string{
	"application/vnd.bids",
	"application/vnd.bids.electrodesformat",
	"application/vnd.g-node.nix.neo",
	"application/vnd.g-node.nix+hdf5",
	"application/vnd.nwb.nwbn+hdf",
	"application/vnd.g-node.odml",
}

// parseIssueDate accepts plain dates and full timestamps
func parseIssueDate(s string) (time.Time, bool) {
	if blank(s) {
		return time.Time{}, false
	}
	for _, layout := range []string{issueDateLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// releasedDateForSorting prefers the issue date over the release date
func releasedDateForSorting(issueDate string, releaseDate *time.Time) string {
	if t, ok := parseIssueDate(issueDate); ok {
		return model.ISODate(t)
	}
	if releaseDate != nil {
		return model.ISODate(*releaseDate)
	}
	return ""
}

// badgeInput lists what the badges of a research product are computed from
type badgeInput struct {
	issueDate         string
	firstRelease      *time.Time
	last30DaysViews   int
	learningResources bool
	services          []string
	contentTypes      []string
	livePapers        bool
	usedByOthers      bool
	usingOthers       bool
}

// badges computes the badges of a research product and whether it is trending
func badges(u *Utils, in badgeInput) ([]string, bool) {
	var result []string
	published, ok := parseIssueDate(in.issueDate)
	if !ok && in.firstRelease != nil {
		published, ok = *in.firstRelease, true
	}
	if ok && u.Now().Sub(published) <= newBadgeWindow {
		result = append(result, BadgeNew)
	}
	trending := false
	if threshold := u.TrendingThreshold(); threshold > 0 && in.last30DaysViews >= threshold {
		result = append(result, BadgeTrending)
		trending = true
	}
	if in.learningResources {
		result = append(result, BadgeLearningResource)
	}
	if anyOf(in.services, imageViewerServices) {
		result = append(result, BadgeLinkedToImageViewer)
	}
	if anyOf(in.services, atlasServices) {
		result = append(result, BadgeIntegratedWithAtlas)
	}
	if anyOf(in.contentTypes, standardContentTypes) {
		result = append(result, BadgeFollowingStandards)
	}
	if in.livePapers {
		result = append(result, BadgeUsedInLivePaper)
	}
	if in.usedByOthers {
		result = append(result, BadgeUsedByOthers)
	}
	if in.usingOthers {
		result = append(result, BadgeUsingOthers)
	}
	return result, trending
}

func anyOf(values, candidates []string) bool {
	for _, v := range values {
		for _, c := range candidates {
			if v == c {
				return true
			}
		}
	}
	return false
}
