// Package httputil holds the response writers, request parsers and
// middleware shared by the REST handlers.
//
//	router.Use(httputil.RequestIDMiddleware(logger), httputil.RecoveryMiddleware, httputil.LoggingMiddleware)
//
//	repositoryID, ok := httputil.ParsePathUUIDOrError(w, r, "id")
//	if !ok {
//		return
//	}
//
// Every error body is an ErrorResponse.
package httputil
