package assistant

import (
	"regexp"
	"strings"
)

var (
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	schemePattern = regexp.MustCompile(`https?://`)
	videoPattern  = regexp.MustCompile(`^https://www\.youtube\.com/watch\?v=([\w-]+)`)
)

// SegmentKind classifies a piece of message text.
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentLink
	SegmentVideo
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentLink:
		return "link"
	case SegmentVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Segment is a run of literal text, a hyperlink or a video reference.
// Text always holds the original characters.
type Segment struct {
	Kind    SegmentKind
	Text    string
	VideoID string
}

// Segments splits text into literal text, links and video references.
// Joining the Text of every segment reproduces the input. A URL running
// straight into another http(s):// is split into two links.
func Segments(text string) []Segment {
	var out []Segment
	last := 0
	for _, m := range urlPattern.FindAllStringIndex(text, -1) {
		if m[0] > last {
			out = append(out, Segment{Kind: SegmentText, Text: text[last:m[0]]})
		}
		for _, u := range splitAdjacent(text[m[0]:m[1]]) {
			out = append(out, classify(u))
		}
		last = m[1]
	}
	if last < len(text) {
		out = append(out, Segment{Kind: SegmentText, Text: text[last:]})
	}
	return out
}

// splitAdjacent cuts u before every embedded scheme, except one that follows
// '=' or '/' since that is a URL carried inside a query or path.
func splitAdjacent(u string) []string {
	var parts []string
	begin := 0
	for _, s := range schemePattern.FindAllStringIndex(u, -1) {
		if s[0] == 0 {
			continue
		}
		if prev := u[s[0]-1]; prev == '=' || prev == '/' {
			continue
		}
		parts = append(parts, u[begin:s[0]])
		begin = s[0]
	}
	return append(parts, u[begin:])
}

func classify(u string) Segment {
	if m := videoPattern.FindStringSubmatch(u); m != nil {
		return Segment{Kind: SegmentVideo, Text: u, VideoID: m[1]}
	}
	return Segment{Kind: SegmentLink, Text: u}
}

// VideoRefs returns the video ids referenced in text, in order.
func VideoRefs(text string) []string {
	var ids []string
	for _, s := range Segments(text) {
		if s.Kind == SegmentVideo {
			ids = append(ids, s.VideoID)
		}
	}
	return ids
}

// WatchURL returns the canonical watch page for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// EmbedURL returns the embeddable player URL for a video id.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + strings.TrimSpace(id) + "?autoplay=1&rel=0"
}
