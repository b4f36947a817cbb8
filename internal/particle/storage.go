package particle

import "github.com/emberforge/engine/internal/geom"

// Particle flag bits.
const (
	flagActive uint8 = 1 << iota
	flagVisible
	flagWeather
	flagFadeOut
)

// hotParticle is the per-frame simulation record. It is kept at 32
// bytes so a cache line holds two of them.
type hotParticle struct {
	Pos     geom.Vector2D // 8
	Vel     geom.Vector2D // 8
	Life    float32       // 4
	MaxLife float32       // 4
	Color   uint32        // 4, RGBA
	Flags   uint8
	Gen     uint8
	Texture uint8
	_       uint8
}

func (p *hotParticle) active() bool  { return p.Flags&flagActive != 0 }
func (p *hotParticle) visible() bool { return p.Flags&flagVisible != 0 }
func (p *hotParticle) weather() bool { return p.Flags&flagWeather != 0 }

// coldParticle holds fields the simulation reads rarely.
type coldParticle struct {
	Accel geom.Vector2D
	Size  float32
	Layer RenderLayer
}

// storage keeps the hot and cold arrays parallel. Appends and
// compaction happen only under the owner's writer lock.
type storage struct {
	hot  []hotParticle
	cold []coldParticle
	cap  int

	// rolling cursor for inactive-slot reuse once the cap is reached
	reuseCursor int
}

func newStorage(capacity int) *storage {
	return &storage{
		hot:  make([]hotParticle, 0, capacity),
		cold: make([]coldParticle, 0, capacity),
		cap:  capacity,
	}
}

// append stores a particle, reusing an inactive slot when the cap is
// reached. Returns false when storage is full of live particles.
func (s *storage) append(h hotParticle, c coldParticle) bool {
	if len(s.hot) < s.cap {
		s.hot = append(s.hot, h)
		s.cold = append(s.cold, c)
		return true
	}
	n := len(s.hot)
	for scanned := 0; scanned < n; scanned++ {
		i := (s.reuseCursor + scanned) % n
		if !s.hot[i].active() {
			s.hot[i] = h
			s.cold[i] = c
			s.reuseCursor = i + 1
			return true
		}
	}
	return false
}

func (s *storage) countActive() int {
	n := 0
	for i := range s.hot {
		if s.hot[i].active() {
			n++
		}
	}
	return n
}

// compact rewrites both arrays contiguous in active particles.
func (s *storage) compact() {
	w := 0
	for i := range s.hot {
		if !s.hot[i].active() {
			continue
		}
		if w != i {
			s.hot[w] = s.hot[i]
			s.cold[w] = s.cold[i]
		}
		w++
	}
	s.hot = s.hot[:w]
	s.cold = s.cold[:w]
	s.reuseCursor = 0
}

// compactIfNeeded compacts when over a quarter of the occupied slots
// are inactive, or when the next frame would otherwise hit the cap.
func (s *storage) compactIfNeeded() {
	inactive := len(s.hot) - s.countActive()
	if inactive*4 > s.cap || (len(s.hot) >= s.cap && inactive > 0) {
		s.compact()
	}
}

func (s *storage) reset() {
	s.hot = s.hot[:0]
	s.cold = s.cold[:0]
	s.reuseCursor = 0
}
