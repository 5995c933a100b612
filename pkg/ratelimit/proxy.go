package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP, TCP peer adresinin host kısmını döner.
// Forwarded header'lar burada okunmaz; güvenilir proxy arkasında
// middleware.RealIP RemoteAddr'ı önceden gerçek istemci adresiyle değiştirir.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ProxyTrust, X-Forwarded-For ve X-Real-IP header'larına güvenilecek
// peer adreslerini tutar. Boş ProxyTrust hiçbir header'a güvenmez.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies, "10.0.0.0/8, 127.0.0.1" gibi IP veya CIDR listesini çözer.
func ParseTrustedProxies(entries []string) (*ProxyTrust, error) {
	t := &ProxyTrust{}
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			t.prefixes = append(t.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		t.prefixes = append(t.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return t, nil
}

// Trusted, adresin güvenilir proxy listesinde olup olmadığını döner.
func (t *ProxyTrust) Trusted(ip string) bool {
	if t == nil || len(t.prefixes) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Resolve, istemci IP'sini döner. Peer güvenilir proxy değilse header'lar
// yok sayılır. Güvenilirse X-Forwarded-For sağdan sola yürünür ve ilk
// güvenilmeyen adres alınır; zincirin tamamı proxy ise en soldaki döner.
func (t *ProxyTrust) Resolve(r *http.Request) string {
	peer := ClientIP(r)
	if !t.Trusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				// Bozuk hop'tan öteye güvenilmez.
				return peer
			}
			if !t.Trusted(hop) || i == 0 {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return peer
}
