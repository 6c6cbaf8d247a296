package system

import (
	"image"
	"sync"
)

// FramePool переиспользует кадровые буферы одного размера, чтобы не
// нагружать GC при рендеринге сотен кадров.
type FramePool struct {
	rect image.Rectangle
	pool sync.Pool
}

// NewFramePool создает пул буферов width x height.
func NewFramePool(width, height int) *FramePool {
	r := image.Rect(0, 0, width, height)
	return &FramePool{
		rect: r,
		pool: sync.Pool{
			New: func() interface{} {
				return image.NewRGBA(r)
			},
		},
	}
}

// Get возвращает буфер из пула или создает новый.
func (p *FramePool) Get() *image.RGBA {
	return p.pool.Get().(*image.RGBA)
}

// Put возвращает буфер в пул. Чужие размеры молча отбрасываются.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect != p.rect {
		return
	}
	p.pool.Put(img)
}
