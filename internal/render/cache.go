package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache hands out glamour renderers, one sync.Pool per Options value.
// A TermRenderer must not be shared between concurrent Render calls.
type rendererCache struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var renderers = &rendererCache{pools: make(map[Options]*sync.Pool)}

func (c *rendererCache) pool(opts Options) *sync.Pool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pools[opts]
	if !ok {
		p = &sync.Pool{New: func() any {
			r, err := newRenderer(opts)
			if err != nil {
				return nil
			}
			return r
		}}
		c.pools[opts] = p
	}
	return p
}

// acquire returns a pooled renderer, building one directly when the pool
// could not, so the construction error reaches the caller.
func (c *rendererCache) acquire(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := c.pool(opts).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	return newRenderer(opts)
}

func (c *rendererCache) release(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		c.pool(opts).Put(r)
	}
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(resolveStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every pooled renderer.
func ClearCache() {
	renderers.mu.Lock()
	renderers.pools = make(map[Options]*sync.Pool)
	renderers.mu.Unlock()
}

// CacheSize reports how many distinct Options have a pool.
func CacheSize() int {
	renderers.mu.Lock()
	defer renderers.mu.Unlock()
	return len(renderers.pools)
}
