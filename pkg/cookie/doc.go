// Package cookie provides cookie management with optional HMAC-SHA256
// signing. A Manager carries a fixed attribute set (path, domain, Secure,
// SameSite), so callers construct one manager per cookie scope: the OAuth
// state cookie gets a per-provider path-scoped manager, the session cookie
// a site-wide signed one.
//
// Signed values use the format base64url(value).base64url(signature) so
// they survive cookie value encoding rules without extra escaping. The
// signature is HMAC-SHA256 over the encoded payload string, letting a
// verifier check it without decoding first.
package cookie
