package api

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/facets"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/model"
	"github.com/platinummonkey/kgsearch/pkg/sitemap"
)

// Group is a search group offered to the caller
type Group struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var allGroups = []Group{
	{Value: model.GroupCurated, Label: "in progress"},
	{Value: model.GroupPublic, Label: "publicly released"},
}

// Settings describes the searchable types to the UI
type Settings struct {
	Types        []facets.TypeSettings         `json:"types"`
	TypeMappings map[string]facets.TypeMapping `json:"typeMappings"`
	AuthEndpoint string                        `json:"authEndpoint,omitempty"`
}

// settings handles GET /api/settings
func (s *Server) settings(w http.ResponseWriter, r *http.Request) {
	catalogue := s.deps.Search.Catalogue()
	_ = httputil.WriteSuccess(w, Settings{
		Types:        catalogue.Settings(),
		TypeMappings: catalogue.TypeMappings(),
		AuthEndpoint: s.deps.KG.AuthEndpoint(r.Context()),
	})
}

// authEndpoint handles GET /api/auth/endpoint
func (s *Server) authEndpoint(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteSuccess(w, map[string]string{"authEndpoint": s.deps.KG.AuthEndpoint(r.Context())})
}

// groups handles GET /api/groups. Only curators get to choose a group.
func (s *Server) groups(w http.ResponseWriter, r *http.Request) {
	if !auth.FromContext(r.Context()).InProgress() {
		_ = httputil.WriteSuccess(w, []Group{})
		return
	}
	_ = httputil.WriteSuccess(w, allGroups)
}

// sitemap handles GET /api/sitemap
func (s *Server) sitemap(w http.ResponseWriter, r *http.Request) {
	set, err := s.deps.Sitemap.Sitemap(r.Context())
	if errors.Is(err, sitemap.ErrEmpty) {
		httputil.WriteServiceUnavailable(w, "sitemap not available yet")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := set.Marshal()
	if err != nil {
		writeError(w, r, err)
		return
	}
	_ = httputil.WriteText(w, http.StatusOK, "application/xml", string(body))
}

// groupStage resolves the group of the route. The curated group is
// reserved to callers with an in-progress role.
func groupStage(w http.ResponseWriter, r *http.Request) (model.Stage, bool) {
	stage, err := model.StageForGroup(httputil.PathVar(r, "group"))
	if err != nil {
		httputil.WriteNotFoundError(w, err.Error())
		return "", false
	}
	if stage == model.StageInProgress && !auth.FromContext(r.Context()).InProgress() {
		httputil.WriteForbidden(w, auth.ErrForbidden.Error())
		return "", false
	}
	return stage, true
}
