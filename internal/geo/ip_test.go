// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		override   string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"override wins", "5.160.0.1", "8.8.8.8", "1.1.1.1:1234", "5.160.0.1"},
		{"override trimmed", "  5.160.0.1  ", "", "1.1.1.1:1234", "5.160.0.1"},
		{"first forwarded entry", "", " 8.8.8.8 , 10.0.0.1", "1.1.1.1:1234", "8.8.8.8"},
		{"forwarded with port", "", "8.8.8.8:5000", "1.1.1.1:1234", "8.8.8.8"},
		{"empty forwarded entry falls back", "", " , 8.8.4.4", "1.1.1.1:1234", "1.1.1.1"},
		{"remote addr", "", "", "1.1.1.1:1234", "1.1.1.1"},
		{"remote ipv6", "", "", "[2001:db8::1]:443", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set(ForwardedForHeader, tt.forwarded)
			}
			if got := ClientIP(r, tt.override); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeIP(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"203.0.113.7:443":  "203.0.113.7",
		"203.0.113.7":      "203.0.113.7",
		"[2001:db8::1]:80": "2001:db8::1",
		"[2001:db8::1]":    "2001:db8::1",
		"2001:db8::1":      "2001:db8::1",
		" 1.2.3.4 ":        "1.2.3.4",
		"":                 "",
	}
	for in, want := range tests {
		if got := NormalizeIP(in); got != want {
			t.Errorf("NormalizeIP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsUsableIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ip   string
		want bool
	}{
		{"8.8.8.8", true},
		{"5.160.0.1", true},
		{"2001:4860:4860::8888", true},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.1.1", false},
		{"127.0.0.1", false},
		{"::1", false},
		{"169.254.1.1", false},
		{"fe80::1", false},
		{"0.0.0.0", false},
		{"::", false},
		{"224.0.0.1", false},
		{"not-an-ip", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			t.Parallel()
			if got := IsUsableIP(tt.ip); got != tt.want {
				t.Errorf("IsUsableIP(%q) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	t.Parallel()

	if !IsPrivateIP("192.168.0.10") {
		t.Error("192.168.0.10 should be private")
	}
	if IsPrivateIP("8.8.8.8") {
		t.Error("8.8.8.8 should not be private")
	}
	if IsPrivateIP("garbage") {
		t.Error("unparseable input should not be private")
	}
}
