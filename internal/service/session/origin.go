package session

import "strings"

// OriginPolicy is the allow-list for cross-frame messages.
// Matching is exact: scheme, host and port must all agree.
type OriginPolicy struct {
	allowed map[string]struct{}
}

// NewOriginPolicy builds a policy from a list of origins. Blank entries are ignored.
func NewOriginPolicy(origins []string) *OriginPolicy {
	p := &OriginPolicy{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			p.allowed[o] = struct{}{}
		}
	}
	return p
}

// Allowed reports whether origin is on the list
func (p *OriginPolicy) Allowed(origin string) bool {
	_, ok := p.allowed[origin]
	return ok
}

// Origins returns the allow-list, for wiring CORS and WebSocket checks
func (p *OriginPolicy) Origins() []string {
	out := make([]string, 0, len(p.allowed))
	for o := range p.allowed {
		out = append(out, o)
	}
	return out
}
