package router

import (
	"sort"
	"strings"
)

// splitSegments splits p on "/" and drops a single trailing empty segment,
// so "/upload/" and "/upload" compare equal.
func splitSegments(p string) []string {
	segments := strings.Split(p, "/")
	if len(segments) > 1 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return segments
}

func joinSegments(segments []string) string {
	return strings.Join(segments, "/")
}

// routeSet holds one method's routes ordered so the first match is the best
// one: most segments first, then registration order.
type routeSet []*route

func newRouteSet(byPrefix map[string]*route) routeSet {
	rs := make(routeSet, 0, len(byPrefix))
	for _, r := range byPrefix {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		if len(rs[i].segments) != len(rs[j].segments) {
			return len(rs[i].segments) > len(rs[j].segments)
		}
		return rs[i].order < rs[j].order
	})
	return rs
}

func (rs routeSet) match(path string) (*route, bool) {
	segments := splitSegments(path)
	for _, r := range rs {
		if hasSegmentPrefix(segments, r.segments) {
			return r, true
		}
	}
	return nil, false
}

func hasSegmentPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}
