package system

import (
	"image"
	"sync"
)

// ImagePool переиспользует кадры *image.RGBA одного размера между
// экспортами раскадровки, чтобы не нагружать GC.
type ImagePool struct {
	mu    sync.RWMutex
	pools map[image.Rectangle]*sync.Pool
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var cards = NewImagePool()

// GetImage берет кадр из общего пула.
func GetImage(rect image.Rectangle) *image.RGBA {
	return cards.Get(rect)
}

// PutImage возвращает кадр в общий пул.
func PutImage(img *image.RGBA) {
	cards.Put(img)
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	return p.poolFor(rect).Get().(*image.RGBA)
}

func (p *ImagePool) poolFor(rect image.Rectangle) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[rect]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok = p.pools[rect]; ok {
		return pool
	}
	pool = &sync.Pool{
		New: func() any { return image.NewRGBA(rect) },
	}
	p.pools[rect] = pool
	return pool
}

// Put ignores frames of a size the pool has never handed out.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, ok := p.pools[img.Rect]
	p.mu.RUnlock()
	if ok {
		pool.Put(img)
	}
}
