package diagnostics

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"clarity-backend/internal/diagnostic/preview"
)

// PreviewCache memoizes preview runs. A preview is a pure function of the
// normalized answers and the date it is stamped with, so the key is the
// intake fingerprint plus that date.
type PreviewCache struct {
	lru *lru.Cache[string, preview.Result]
}

// NewPreviewCache returns a cache holding up to size previews. A size of
// zero or less disables caching.
func NewPreviewCache(size int) (*PreviewCache, error) {
	if size <= 0 {
		return &PreviewCache{}, nil
	}
	c, err := lru.New[string, preview.Result](size)
	if err != nil {
		return nil, err
	}
	return &PreviewCache{lru: c}, nil
}

func previewKey(fingerprint, date string) string {
	return fingerprint + "|" + date
}

func (c *PreviewCache) Get(fingerprint, date string) (preview.Result, bool) {
	if c == nil || c.lru == nil {
		return preview.Result{}, false
	}
	return c.lru.Get(previewKey(fingerprint, date))
}

func (c *PreviewCache) Add(fingerprint, date string, res preview.Result) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(previewKey(fingerprint, date), res)
}

func (c *PreviewCache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
