// Package auth verifies the bearer tokens of the callers and derives their
// roles.
//
// Tokens are OpenID Connect access tokens issued by the EBRAINS identity
// provider. A valid token yields a Principal carrying the team roles of the
// caller; members of a kg-search in-progress team can read the curated
// group.
//
//	verifier, err := auth.NewVerifier(ctx, issuerURL, clientID)
//	router.Use(auth.Middleware(verifier, logger))
//
//	if err := auth.RequireInProgress(r.Context()); err != nil {
//		// 403
//	}
//
// Requests without a token pass through anonymously; only invalid tokens are
// rejected.
package auth
