package api

import (
	"fmt"
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/search"
)

// search handles GET|POST /api/groups/{group}/search
// Query parameters:
//   - q: free text query
//   - type: document type, the default type when empty
//   - from, size: paging
//
// A POST body holds the same fields plus the facet selections. Query
// parameters win over the body.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	stage, ok := groupStage(w, r)
	if !ok {
		return
	}

	req := search.Request{Size: search.DefaultSize}
	if r.Method == http.MethodPost && !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	req.Query = httputil.ParseQueryString(r, "q", req.Query)
	req.Type = httputil.ParseQueryString(r, "type", req.Type)
	if req.Type == "" {
		req.Type = s.defaultType()
	}
	var err error
	if req.From, err = httputil.ParseQueryInt(r, "from", req.From); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	if req.Size, err = httputil.ParseQueryInt(r, "size", req.Size); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	response, err := s.deps.Search.Search(r.Context(), stage, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, response)
}

func (s *Server) defaultType() string {
	settings := s.deps.Search.Catalogue().Settings()
	for _, t := range settings {
		if t.DefaultSelection {
			return t.Type
		}
	}
	if len(settings) > 0 {
		return settings[0].Type
	}
	return ""
}

// document handles GET /api/groups/{group}/documents/{id} and
// /api/groups/{group}/documents/{type}/{id}
func (s *Server) document(w http.ResponseWriter, r *http.Request) {
	stage, ok := groupStage(w, r)
	if !ok {
		return
	}
	id := httputil.PathVar(r, "id")
	if docType := httputil.PathVar(r, "type"); docType != "" {
		id = fmt.Sprintf("%s/%s", docType, id)
	}

	doc, err := s.deps.Search.Document(r.Context(), stage, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, doc)
}
