// Package handler implements the HTTP API of the c4dsl server.
//
// # Endpoints
//
//	POST /api/validate             validate a source, record the run
//	POST /api/format               canonical formatting
//	POST /api/analyze              structure statistics and suggestions
//	POST /api/convert?from=&to=    convert between dsl, json, and yaml
//	GET  /api/runs                 list recorded runs (digest, source, valid, limit)
//	GET  /api/runs/{id}            a single run
//	GET  /api/resources/{name}     schema and examples reference documents
//	GET  /healthz                  liveness
//
// Request bodies are raw DSL, or {"content": "..."} when the Content-Type
// is application/json. Responses are JSON; validate, format, and analyze
// render markdown instead when the client accepts text/markdown.
//
// Errors are returned as JSON with {error, details} structure.
package handler
