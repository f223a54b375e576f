package api

import (
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
)

// addBookmark handles POST|PUT /api/{id}/bookmark
func (s *Server) addBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := bookmarkTarget(w, r)
	if !ok {
		return
	}
	if err := s.deps.KG.AddBookmark(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httputil.WriteNoContent(w)
}

// deleteBookmark handles DELETE /api/{id}/bookmark by removing every
// bookmark the caller holds on the instance
func (s *Server) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := bookmarkTarget(w, r)
	if !ok {
		return
	}
	bookmarks, err := s.deps.KG.BookmarkIDsOf(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, bookmarkID := range bookmarks {
		if err := s.deps.KG.DeleteBookmark(r.Context(), bookmarkID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	httputil.WriteNoContent(w)
}

func bookmarkTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	if auth.FromContext(r.Context()) == nil {
		httputil.WriteUnauthorized(w, auth.ErrUnauthenticated.Error())
		return "", false
	}
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return "", false
	}
	return id.String(), true
}
