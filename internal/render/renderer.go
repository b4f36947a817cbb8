// Package render defines the draw-primitive boundary the particle core
// renders through. The engine owns batching by color; the backend only
// fills rectangles.
package render

import "sync"

// Renderer is the minimal draw sink. Coordinates are screen space; the
// caller applies the camera offset.
type Renderer interface {
	SetDrawColor(r, g, b, a uint8)
	DrawFilledRect(x, y, w, h float32)
}

// Recorder counts draw calls; it is the test double and the headless
// demo backend.
type Recorder struct {
	mu         sync.Mutex
	rects      int
	colorSets  int
	lastR      uint8
	lastG      uint8
	lastB      uint8
	lastA      uint8
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) SetDrawColor(cr, cg, cb, ca uint8) {
	r.mu.Lock()
	r.colorSets++
	r.lastR, r.lastG, r.lastB, r.lastA = cr, cg, cb, ca
	r.mu.Unlock()
}

func (r *Recorder) DrawFilledRect(x, y, w, h float32) {
	r.mu.Lock()
	r.rects++
	r.mu.Unlock()
}

func (r *Recorder) RectCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rects
}

func (r *Recorder) ColorSetCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.colorSets
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.rects = 0
	r.colorSets = 0
	r.mu.Unlock()
}
