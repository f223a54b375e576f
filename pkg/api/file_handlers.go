package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/search"
)

// Page size limits of the file listings
const (
	MaxPublicFilePage  = search.FilePageSize
	MaxCuratedFilePage = 100
)

// files handles GET /api/groups/{group}/repositories/{id}/files
// Query parameters:
//   - searchAfter: id of the last file of the previous page
//   - size: page size, at most 10000 (100 for the curated group)
//   - format, groupingType: restrict the listing
//
// Without searchAfter and size the whole public repository is listed.
func (s *Server) files(w http.ResponseWriter, r *http.Request) {
	repositoryID, stage, ok := s.repository(w, r)
	if !ok {
		return
	}

	maxSize := MaxPublicFilePage
	if stage == model.StageInProgress {
		maxSize = MaxCuratedFilePage
	}
	size, err := httputil.ParseQueryInt(r, "size", maxSize)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if size <= 0 || size > maxSize {
		httputil.WriteBadRequest(w, fmt.Sprintf("size must be between 1 and %d", maxSize))
		return
	}
	searchAfter := httputil.ParseQueryString(r, "searchAfter", "")
	if searchAfter != "" {
		if _, err := uuid.Parse(searchAfter); err != nil {
			httputil.WriteBadRequest(w, "searchAfter is not a valid UUID")
			return
		}
	}
	format := httputil.ParseQueryString(r, "format", "")
	groupingType := httputil.ParseQueryString(r, "groupingType", "")

	var list *search.FileList
	if searchAfter == "" && !r.URL.Query().Has("size") && stage == model.StageReleased {
		list, err = s.deps.Search.Files(r.Context(), stage, repositoryID, format, groupingType)
	} else {
		list, err = s.deps.Search.FilesPage(r.Context(), stage, repositoryID, searchAfter, size, format, groupingType)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, list)
}

// fileFormats handles GET /api/groups/{group}/repositories/{id}/files/formats
func (s *Server) fileFormats(w http.ResponseWriter, r *http.Request) {
	repositoryID, stage, ok := s.repository(w, r)
	if !ok {
		return
	}
	values, err := s.deps.Search.FileFormats(r.Context(), stage, repositoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, values)
}

// groupingTypes handles GET /api/groups/{group}/repositories/{id}/files/groupingTypes
func (s *Server) groupingTypes(w http.ResponseWriter, r *http.Request) {
	repositoryID, stage, ok := s.repository(w, r)
	if !ok {
		return
	}
	values, err := s.deps.Search.GroupingTypes(r.Context(), stage, repositoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, values)
}

// repository resolves the repository and the stage of a file route
func (s *Server) repository(w http.ResponseWriter, r *http.Request) (string, model.Stage, bool) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return "", "", false
	}
	stage, err := model.StageForGroup(httputil.PathVar(r, "group"))
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return "", "", false
	}
	if stage == model.StageInProgress && !s.canReadCuratedFiles(r.Context(), id.String()) {
		httputil.WriteForbidden(w, auth.ErrForbidden.Error())
		return "", "", false
	}
	return id.String(), stage, true
}

// canReadCuratedFiles reports whether the caller is a curator or was
// invited to review the repository
func (s *Server) canReadCuratedFiles(ctx context.Context, repositoryID string) bool {
	principal := auth.FromContext(ctx)
	if principal == nil {
		return false
	}
	if principal.InProgress() {
		return true
	}
	invitations, err := s.deps.KG.Invitations(ctx)
	if err != nil {
		observability.FromContext(ctx).WithError(err).Warn("Could not read the invitations of the caller")
		return false
	}
	for _, id := range invitations {
		if id == repositoryID {
			return true
		}
	}
	return false
}
