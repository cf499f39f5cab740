// Package jwt provides utilities for generating, parsing, and validating
// JSON Web Tokens (JWT).
//
// The implementation focuses on the HS256 (HMAC-SHA256) algorithm. A
// high-level Service type wraps signing and verification while accepting any
// JSON-serialisable claims structure. StandardClaims is provided as a
// convenient struct mirroring the RFC 7519 registered fields; callers embed
// it in their own claims types to add application fields.
//
// # Usage
//
// import "github.com/dmitrymomot/docvault/pkg/jwt"
//
// // Initialise the service.
// svc, err := jwt.NewFromString("super-secret")
// if err != nil {
//     // handle error
// }
//
// // Generate a token.
// claims := jwt.StandardClaims{
//     Subject:   "123",
//     ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
// }
// token, err := svc.Generate(claims)
//
// // Parse the token back.
// var parsed jwt.StandardClaims
// if err := svc.Parse(token, &parsed); err != nil {
//     // handle invalid / expired token
// }
//
// # Error Handling
//
// Errors such as ErrExpiredToken or ErrInvalidSignature are returned as
// sentinel variables and can be compared using errors.Is.
package jwt
