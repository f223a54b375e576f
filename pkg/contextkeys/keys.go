// Package contextkeys defines the request scoped values shared between
// packages. Keeping every key here avoids import cycles between the auth,
// httputil, kgclient and observability packages.
package contextkeys

import "context"

// Key is the type of every context key of the service
type Key string

const (
	// PrincipalKey holds the *auth.Principal of an authenticated caller
	PrincipalKey Key = "principal"
	// UserTokenKey holds the raw bearer token forwarded to the KG on user calls
	UserTokenKey Key = "user_token"
	// UserIDKey holds the subject of the caller, added to request logs
	UserIDKey    Key = "user_id"
	RequestIDKey Key = "request_id"
	// LoggerKey holds the *observability.Logger of the request
	LoggerKey Key = "logger"
)

// WithPrincipal stores the authenticated caller. The value is untyped so
// this package does not depend on auth.
func WithPrincipal(ctx context.Context, principal interface{}) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

func WithUserToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, UserTokenKey, token)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// GetUserToken returns the bearer token of the caller, empty when anonymous
func GetUserToken(ctx context.Context) string {
	return stringValue(ctx, UserTokenKey)
}

func GetUserID(ctx context.Context) string {
	return stringValue(ctx, UserIDKey)
}

func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

func stringValue(ctx context.Context, key Key) string {
	v, _ := ctx.Value(key).(string)
	return v
}
