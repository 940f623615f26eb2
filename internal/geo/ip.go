// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"net"
	"net/http"
	"strings"
)

// ForwardedForHeader is the proxy header consulted by ClientIP.
const ForwardedForHeader = "X-Forwarded-For"

// ClientIP extracts the client address for a request.
//
// An explicit override wins, then the first X-Forwarded-For entry, then the
// peer address. Ports and IPv6 brackets are stripped. The returned value is
// not validated; use IsUsableIP before looking it up.
func ClientIP(r *http.Request, override string) string {
	if override = strings.TrimSpace(override); override != "" {
		return NormalizeIP(override)
	}

	if fwd := r.Header.Get(ForwardedForHeader); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return NormalizeIP(first)
		}
	}

	return NormalizeIP(r.RemoteAddr)
}

// NormalizeIP strips a port and IPv6 brackets from addr.
//
//	"203.0.113.7:443" -> "203.0.113.7"
//	"[2001:db8::1]:80" -> "2001:db8::1"
//	"2001:db8::1"      -> "2001:db8::1"
func NormalizeIP(addr string) string {
	addr = strings.TrimSpace(addr)
	if strings.HasPrefix(addr, "[") {
		if idx := strings.LastIndex(addr, "]:"); idx != -1 {
			return addr[1:idx]
		}
		return strings.Trim(addr, "[]")
	}

	// Only a single colon means host:port; more is a bare IPv6 address.
	if strings.Count(addr, ":") == 1 {
		host, _, err := net.SplitHostPort(addr)
		if err == nil {
			return host
		}
	}
	return addr
}

// IsPrivateIP reports whether ip is in a private, loopback or link-local range.
// Unparseable input returns false.
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsPrivate() || parsed.IsLoopback() ||
		parsed.IsLinkLocalUnicast() || parsed.IsLinkLocalMulticast()
}

// IsUsableIP reports whether ip is a routable public address worth a GeoIP lookup.
func IsUsableIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsUnspecified() || parsed.IsMulticast() {
		return false
	}
	return !IsPrivateIP(ip)
}
