package api

import (
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/observability"
)

// Defaults of the citation parameters
const (
	DefaultCitationStyle       = "apa"
	DefaultCitationContentType = "text/x-bibliography"
)

type citationParams struct {
	doi         string
	style       string
	contentType string
}

func parseCitationParams(w http.ResponseWriter, r *http.Request) (citationParams, bool) {
	p := citationParams{
		doi:         httputil.ParseQueryString(r, "doi", ""),
		style:       httputil.ParseQueryString(r, "style", DefaultCitationStyle),
		contentType: httputil.ParseQueryString(r, "contentType", DefaultCitationContentType),
	}
	if p.doi == "" {
		httputil.WriteBadRequest(w, "missing query parameter 'doi'")
		return p, false
	}
	return p, true
}

// citation handles GET /api/citation?doi&style&contentType
func (s *Server) citation(w http.ResponseWriter, r *http.Request) {
	p, ok := parseCitationParams(w, r)
	if !ok {
		return
	}
	s.writeCitation(w, p, s.deps.Citations.Citation(r.Context(), p.doi, p.style, p.contentType))
}

// refreshCitation handles PUT /api/citation/cache?doi&style&contentType
func (s *Server) refreshCitation(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireAdmin(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	p, ok := parseCitationParams(w, r)
	if !ok {
		return
	}
	s.writeCitation(w, p, s.deps.Citations.Refresh(r.Context(), p.doi, p.style, p.contentType))
}

// evictCitations handles DELETE /api/citation/cache
func (s *Server) evictCitations(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireAdmin(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.deps.Citations.EvictAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	observability.FromContext(r.Context()).Info("Citation cache evicted")
	httputil.WriteNoContent(w)
}

// citationCacheStats handles GET /api/citation/cache
func (s *Server) citationCacheStats(w http.ResponseWriter, r *http.Request) {
	if err := auth.RequireAdmin(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, s.deps.Citations.Stats())
}

func (s *Server) writeCitation(w http.ResponseWriter, p citationParams, value string) {
	if value == "" {
		httputil.WriteNotFoundError(w, "no citation for "+p.doi)
		return
	}
	_ = httputil.WriteText(w, http.StatusOK, "text/plain; charset=utf-8", value)
}
