// Package auth provides authentication and authorization for the API.
//
// # Authentication
//
// LocalProvider verifies email and password against the users table
// (Argon2id hashes). On success the TokenManager issues a signed access and
// refresh token pair. Every protected route runs the Authenticate middleware,
// which resolves the bearer token to an active user and stores it in
// fiber.Locals.
//
// Token problems (missing header, malformed token, bad signature, expired,
// unknown subject, wrong token type) are logged individually but are all
// answered with the same 401 response.
//
// # Authorization
//
// A user owns at most one role and a role owns a set of permissions. A check
// for permission p is granted when:
//   - the role is named "admin", or
//   - the role holds the permission "all", or
//   - the role holds p or the alias of p (e.g. manage_cameras for cameras.manage).
//
// A user without a role is denied every check.
//
// Example usage:
//
//	authService := auth.NewService(db)
//	tokens := auth.NewTokenManager(secret, 30*time.Minute, 7*24*time.Hour)
//
//	api := app.Group("/api/v1", auth.Authenticate(tokens, authService))
//	api.Post("/locations",
//	    auth.RequirePermission(authService, auth.PermLocationsManage),
//	    handler,
//	)
package auth
