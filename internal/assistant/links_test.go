package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "no urls",
			text: "Keep your back straight.",
			want: []Segment{{Kind: SegmentText, Text: "Keep your back straight."}},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "video in the middle",
			text: "Watch this: https://www.youtube.com/watch?v=abc123 great video",
			want: []Segment{
				{Kind: SegmentText, Text: "Watch this: "},
				{Kind: SegmentVideo, Text: "https://www.youtube.com/watch?v=abc123", VideoID: "abc123"},
				{Kind: SegmentText, Text: " great video"},
			},
		},
		{
			name: "plain link",
			text: "See http://example.com/squat.",
			want: []Segment{
				{Kind: SegmentText, Text: "See "},
				{Kind: SegmentLink, Text: "http://example.com/squat."},
			},
		},
		{
			name: "non canonical youtube is a link",
			text: "https://youtu.be/abc123",
			want: []Segment{{Kind: SegmentLink, Text: "https://youtu.be/abc123"}},
		},
		{
			name: "video with extra params",
			text: "https://www.youtube.com/watch?v=a_b-C9&t=30s",
			want: []Segment{{Kind: SegmentVideo, Text: "https://www.youtube.com/watch?v=a_b-C9&t=30s", VideoID: "a_b-C9"}},
		},
		{
			name: "adjacent urls",
			text: "https://www.youtube.com/watch?v=one1https://www.youtube.com/watch?v=two2",
			want: []Segment{
				{Kind: SegmentVideo, Text: "https://www.youtube.com/watch?v=one1", VideoID: "one1"},
				{Kind: SegmentVideo, Text: "https://www.youtube.com/watch?v=two2", VideoID: "two2"},
			},
		},
		{
			name: "url inside query is kept whole",
			text: "https://example.com/r?to=https://b.example",
			want: []Segment{{Kind: SegmentLink, Text: "https://example.com/r?to=https://b.example"}},
		},
		{
			name: "urls separated by newline",
			text: "1. https://a.example\n2. https://b.example",
			want: []Segment{
				{Kind: SegmentText, Text: "1. "},
				{Kind: SegmentLink, Text: "https://a.example"},
				{Kind: SegmentText, Text: "\n2. "},
				{Kind: SegmentLink, Text: "https://b.example"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.text)
			assert.Equal(t, tt.want, got)

			var b strings.Builder
			for _, s := range got {
				b.WriteString(s.Text)
			}
			assert.Equal(t, tt.text, b.String())
		})
	}
}

func TestVideoRefs(t *testing.T) {
	text := "Squat: https://www.youtube.com/watch?v=sq1 and docs https://example.com then https://www.youtube.com/watch?v=dl2"
	assert.Equal(t, []string{"sq1", "dl2"}, VideoRefs(text))
	assert.Empty(t, VideoRefs("nothing here"))
}

func TestVideoURLs(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "https://www.youtube.com/embed/abc?autoplay=1&rel=0", EmbedURL("abc"))
}
