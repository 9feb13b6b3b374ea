// Package api provides the HTTP REST API for ProjectHub.
//
// Routes live under /api/v1. Registration, login and health are public;
// everything else needs an "Authorization: Bearer <token>" header, and
// project writes plus the audit trail need the admin role.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Errors are always JSON: {"status": 401, "code": "unauthorised", "message": "..."}.
// Every token failure (bad signature, expired, unknown subject) returns the
// same 401 body so clients cannot probe which check failed.
package api
