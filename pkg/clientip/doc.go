// Package clientip resolves the client address of HTTP requests.
//
// Forwarding headers are only honoured when listed explicitly, so a server
// reachable without a proxy cannot be fooled by a spoofed X-Forwarded-For.
package clientip
