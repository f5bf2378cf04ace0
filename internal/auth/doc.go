// Package auth holds the credential primitives: bcrypt password hashing,
// HS256 session tokens and the path-owner guard applied to task routes.
package auth
