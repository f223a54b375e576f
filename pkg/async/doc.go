// Package async runs background tasks safely.
//
// SafeGo bounds a task with a timeout, logs its error and recovers its
// panics, so that warm ups and refreshes started next to the HTTP server
// never bring the process down.
package async
