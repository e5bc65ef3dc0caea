package drive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/thumbnail?id=id1&sz=w1000", ThumbnailURL("id1", 1000))
	assert.Equal(t, "https://drive.google.com/thumbnail?id=id1&sz=w200", ThumbnailURL("id1", 200))
}

func TestJoinThumbnailsDelimiterCount(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	for _, delim := range []string{"|", ","} {
		joined := JoinThumbnails(ids, 1000, delim)
		assert.Equal(t, len(ids)-1, strings.Count(joined, delim))
	}

	assert.Equal(t, "", JoinThumbnails(nil, 1000, "|"))
	assert.Equal(t, ThumbnailURL("a", 1000), JoinThumbnails([]string{"a"}, 1000, "|"))
}

func TestThumbnailURLsDisjointForDisjointIDs(t *testing.T) {
	left := ThumbnailURLs([]string{"aaa", "bbb"}, 1000)
	right := ThumbnailURLs([]string{"ccc", "ddd"}, 1000)

	for _, u := range left {
		assert.NotContains(t, right, u)
	}
}

func TestFirstThumbnail(t *testing.T) {
	cell := JoinThumbnails([]string{"id1", "id2"}, 1000, "|")
	assert.Equal(t, ThumbnailURL("id1", 1000), FirstThumbnail(cell, "|"))
	assert.Equal(t, "single", FirstThumbnail(" single ", "|"))
}
