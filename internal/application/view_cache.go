package application

import (
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultViewCacheSize = 256

// viewCache stores computed views keyed by snapshot version and query so
// repeated renders of an unchanged event list skip recomputation. Values are
// treated as immutable; callers clone before handing results out.
type viewCache struct {
	entries *lru.Cache[string, any]
}

func newViewCache(size int) (*viewCache, error) {
	if size <= 0 {
		size = defaultViewCacheSize
	}
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &viewCache{entries: entries}, nil
}

func (c *viewCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

func (c *viewCache) Store(key string, value any) {
	if c == nil {
		return
	}
	c.entries.Add(key, value)
}

func (c *viewCache) Invalidate() {
	if c == nil {
		return
	}
	c.entries.Purge()
}

func (c *viewCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

func buildViewCacheKey(kind string, version uint64, loc *time.Location, parts ...string) string {
	builder := strings.Builder{}
	builder.WriteString(kind)
	builder.WriteString("|")
	builder.WriteString(strconv.FormatUint(version, 10))
	builder.WriteString("|")
	if loc != nil {
		builder.WriteString(loc.String())
	}
	for _, part := range parts {
		builder.WriteString("|")
		builder.WriteString(part)
	}
	return builder.String()
}
