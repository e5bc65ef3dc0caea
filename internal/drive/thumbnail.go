package drive

import (
	"fmt"
	"strings"
)

const ThumbnailEndpoint = "https://drive.google.com/thumbnail"

func thumbnailURL(endpoint, fileID string, size int) string {
	return fmt.Sprintf("%s?id=%s&sz=w%d", endpoint, fileID, size)
}

// ThumbnailURL returns the resized preview URL Drive serves for fileID.
func ThumbnailURL(fileID string, size int) string {
	return thumbnailURL(ThumbnailEndpoint, fileID, size)
}

func ThumbnailURLs(fileIDs []string, size int) []string {
	urls := make([]string, 0, len(fileIDs))
	for _, id := range fileIDs {
		urls = append(urls, ThumbnailURL(id, size))
	}
	return urls
}

// JoinThumbnails renders fileIDs as a single cell value.
func JoinThumbnails(fileIDs []string, size int, delimiter string) string {
	return strings.Join(ThumbnailURLs(fileIDs, size), delimiter)
}

// FirstThumbnail returns the first URL of a joined cell value.
func FirstThumbnail(cell, delimiter string) string {
	first, _, _ := strings.Cut(cell, delimiter)
	return strings.TrimSpace(first)
}
