package api

import (
	"fmt"
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/search"
	"github.com/platinummonkey/kgsearch/pkg/translate"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

// liveDocument handles GET /api/{id}/live?skipReferenceCheck
//
// The instance is read from the in progress stage with the token of the
// caller, so the KG decides who may preview it.
func (s *Server) liveDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathUUIDOrError(w, r, "id")
	if !ok {
		return
	}
	skip, err := httputil.ParseQueryBool(r, "skipReferenceCheck", false)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	types, err := s.deps.KG.TypesOfInstance(r.Context(), id.String(), model.StageInProgress, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, semanticType := range types {
		runner, ok := s.deps.Registry.ForType(semanticType)
		if !ok || runner.Meta().Generation != translate.GenerationV3 {
			continue
		}
		s.preview(w, r, runner, runner.Meta().QueryIDFor(semanticType), id.String(), !skip)
		return
	}
	httputil.WriteNotFoundError(w, fmt.Sprintf("no translator for the types of %s", id))
}

// legacyLiveDocument handles GET /api/{org}/{domain}/{schema}/{version}/{id}/live
func (s *Server) legacyLiveDocument(w http.ResponseWriter, r *http.Request) {
	semanticType := fmt.Sprintf("%s/%s/%s/%s",
		httputil.PathVar(r, "org"),
		httputil.PathVar(r, "domain"),
		httputil.PathVar(r, "schema"),
		httputil.PathVar(r, "version"),
	)
	runner, ok := s.deps.Registry.ForType(semanticType)
	if !ok || runner.Meta().Generation != translate.GenerationV1V2 {
		httputil.WriteNotFoundError(w, fmt.Sprintf("no translator for %s", semanticType))
		return
	}
	s.preview(w, r, runner, runner.Meta().QueryIDFor(semanticType), httputil.PathVar(r, "id"), true)
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request, runner translate.Runner, queryID, id string, checkReferences bool) {
	lookup, err := s.deps.Previews.TranslateOneForPreview(r.Context(), runner, queryID, model.StageInProgress, id, checkReferences)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if lookup.Kind != translation.ExactlyOne {
		httputil.WriteNotFoundError(w, fmt.Sprintf("instance %s not found", id))
		return
	}
	doc, err := search.RenderLiveDocument(lookup.Target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteSuccess(w, doc)
}
