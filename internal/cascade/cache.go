package cascade

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// fileCacheSize bounds the number of cached stylesheet bodies. Stylesheets are
// small; this mostly exists to keep watched rebuilds from re-reading an
// unchanged import closure on every cycle.
const fileCacheSize = 256

type cacheEntry struct {
	modTime time.Time
	size    int64
	text    string
}

// fileCache is an mtime+size validated read cache for stylesheet files.
type fileCache struct {
	entries *lru.Cache[string, cacheEntry]
}

func newFileCache() *fileCache {
	entries, err := lru.New[string, cacheEntry](fileCacheSize)
	if err != nil {
		// Only possible with a non-positive size constant.
		panic(err)
	}
	return &fileCache{entries: entries}
}

// read returns the file's text, served from cache when the stat signature
// still matches.
func (c *fileCache) read(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if entry, ok := c.entries.Get(path); ok {
		if entry.modTime.Equal(st.ModTime()) && entry.size == st.Size() {
			return entry.text, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	c.entries.Add(path, cacheEntry{modTime: st.ModTime(), size: st.Size(), text: text})
	return text, nil
}
