package api

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/kgsearch/pkg/auth"
	"github.com/platinummonkey/kgsearch/pkg/elastic"
	"github.com/platinummonkey/kgsearch/pkg/httputil"
	"github.com/platinummonkey/kgsearch/pkg/kgclient"
	"github.com/platinummonkey/kgsearch/pkg/observability"
	"github.com/platinummonkey/kgsearch/pkg/search"
	"github.com/platinummonkey/kgsearch/pkg/translation"
)

// statusOf maps an error to the status of the response
func statusOf(err error) int {
	var (
		kgStatus     *kgclient.StatusError
		engineStatus *elastic.StatusError
		ambiguous    *translation.AmbiguousError
	)
	switch {
	case errors.Is(err, search.ErrNotFound), errors.Is(err, kgclient.ErrNotFound), errors.Is(err, elastic.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, search.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &ambiguous):
		return http.StatusConflict
	case errors.As(err, &kgStatus):
		return passThrough(kgStatus.StatusCode)
	case errors.As(err, &engineStatus):
		return passThrough(engineStatus.StatusCode)
	}
	return http.StatusInternalServerError
}

func passThrough(code int) int {
	if code < 400 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}

// writeError answers with the status of err. Server side failures are
// logged and their cause is not disclosed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		observability.FromContext(r.Context()).WithError(err).WithField("status", status).Error("Request failed")
		httputil.WriteErrorMessage(w, status, http.StatusText(status))
		return
	}
	httputil.WriteErrorMessage(w, status, err.Error())
}
