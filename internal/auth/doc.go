// Package auth provides authentication and authorisation for ProjectHub.
//
// The pieces, leaf first:
//   - Hasher: Argon2id (default) or bcrypt password hashes; verification
//     reads the algorithm and work factor from the stored hash
//   - TokenCodec: HMAC-signed JWT access tokens carrying sub, role and exp
//   - Resolver: maps a verified token subject to the live user record
//   - RequireRole / HasAnyRole: role checks against the closed set {admin, user}
//   - Service: Register, Login, Authenticate and Authorize built on the above
//
// There is no server-side session state, no refresh token and no revocation.
// A token is valid until its exp passes. Authorisation decisions use the role
// re-read from the store, so a demoted user loses access immediately even
// though their token still carries the old role.
package auth
