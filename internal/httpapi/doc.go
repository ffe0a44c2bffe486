// Package httpapi serves read-only JSON endpoints that expose seeds and
// reproduced sessions, so the study's web client can be cross-checked live
// against the engine.
//
// The server holds one immutable catalog snapshot taken at startup. Each
// request derives its own pool and streams from that snapshot, so handlers
// share no mutable state.
package httpapi
