// Package clientip resolves the originating client address of a request
// served behind reverse proxies.
//
// A Resolver checks its trusted headers in order and falls back to
// RemoteAddr. Header values may be comma-separated lists, as with
// X-Forwarded-For; the first valid entry wins. Addresses are returned in
// canonical form with IPv4-mapped IPv6 addresses unmapped.
//
//	res := clientip.NewResolver("CF-Connecting-IP", "X-Forwarded-For")
//	r.Use(res.Middleware)
//
//	// downstream
//	ip := clientip.FromContext(r.Context())
//
// Only trust headers that your proxy overwrites. A header the client can set
// directly lets it pick its own address.
package clientip
