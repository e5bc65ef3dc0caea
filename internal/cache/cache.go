package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache remembers folder listings and probe verdicts so a folder linked from
// several rows is only fetched once per run.
type Cache struct {
	cache    *gocache.Cache
	duration time.Duration
}

func New(duration time.Duration) *Cache {
	return &Cache{
		cache:    gocache.New(duration, duration*2),
		duration: duration,
	}
}

func (c *Cache) SetFolder(folderID string, fileIDs []string) {
	c.cache.Set("folder:"+folderID, fileIDs, c.duration)
}

func (c *Cache) GetFolder(folderID string) ([]string, bool) {
	if ids, found := c.cache.Get("folder:" + folderID); found {
		return ids.([]string), true
	}
	return nil, false
}

func (c *Cache) SetImageVerdict(fileID string, isImage bool) {
	c.cache.Set("probe:"+fileID, isImage, c.duration)
}

func (c *Cache) GetImageVerdict(fileID string) (bool, bool) {
	if v, found := c.cache.Get("probe:" + fileID); found {
		return v.(bool), true
	}
	return false, false
}
