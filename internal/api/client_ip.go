package api

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIPResolver resolves the client IP used for rate limiting. Forwarding
// headers are honored only when the immediate peer is a trusted proxy.
type ClientIPResolver struct {
	trustedProxies []netip.Prefix
}

// NewClientIPResolver accepts trusted proxy entries as plain addresses or
// CIDR prefixes.
func NewClientIPResolver(trustedProxies []string) (*ClientIPResolver, error) {
	resolver := &ClientIPResolver{}

	for _, raw := range trustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		if addr, err := netip.ParseAddr(entry); err == nil {
			resolver.trustedProxies = append(resolver.trustedProxies, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}

		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		resolver.trustedProxies = append(resolver.trustedProxies, prefix)
	}

	return resolver, nil
}

func (r *ClientIPResolver) Resolve(req *http.Request) string {
	peer, ok := parseClientAddr(req.RemoteAddr)
	if !ok {
		return "unknown"
	}

	if r.trusts(peer) {
		if forwarded, ok := firstForwardedAddr(req.Header.Get("X-Forwarded-For")); ok {
			return forwarded.String()
		}
		if realIP, ok := parseClientAddr(req.Header.Get("X-Real-IP")); ok {
			return realIP.String()
		}
	}

	return peer.String()
}

func (r *ClientIPResolver) trusts(addr netip.Addr) bool {
	for _, prefix := range r.trustedProxies {
		if prefix.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// firstForwardedAddr returns the leftmost parseable entry of an
// X-Forwarded-For header.
func firstForwardedAddr(header string) (netip.Addr, bool) {
	for _, part := range strings.Split(header, ",") {
		if addr, ok := parseClientAddr(part); ok {
			return addr, true
		}
	}
	return netip.Addr{}, false
}

// parseClientAddr handles bare IPs, quoted entries, and host:port forms.
func parseClientAddr(value string) (netip.Addr, bool) {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"`)
	if value == "" {
		return netip.Addr{}, false
	}

	if addr, err := netip.ParseAddr(value); err == nil {
		return addr, true
	}

	if host, _, err := net.SplitHostPort(value); err == nil {
		host = strings.Trim(host, "[]")
		if addr, err := netip.ParseAddr(host); err == nil {
			return addr, true
		}
	}

	return netip.Addr{}, false
}
