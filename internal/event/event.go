package event

// Event is a declarative game occurrence with identity, priority, and
// conditions. The manager owns every registered event by name; outside
// holders keep the name and look the event up on use.
type Event interface {
	Name() string
	TypeID() TypeID

	// Update advances internal timers and transitions. Called from batch
	// processing, possibly on a worker goroutine.
	Update()
	// Execute performs the event's effect. Called when conditions pass and
	// no typed handler owns the type, or directly via ExecuteEvent.
	Execute()
	// Reset clears triggered and cooldown state so the event can fire again.
	Reset()
	// Clean releases any resources before removal.
	Clean()
	// CheckConditions reports whether the event should execute this tick.
	CheckConditions() bool
	// OnMessage delivers a routed message body to the event.
	OnMessage(msg string)

	Active() bool
	SetActive(bool)
	Priority() int
	SetPriority(int)
	UpdateFrequency() int
	SetUpdateFrequency(framesPerUpdate int)

	Cooldown() float32
	SetCooldown(seconds float32)
	OnCooldown() bool
	StartCooldown()
	ResetCooldown()
	UpdateCooldown(dt float32)

	OneTime() bool
	SetOneTime(bool)
	HasTriggered() bool

	// ShouldUpdate gates Update: false while inactive, on cooldown, on an
	// off-frequency frame, or after a one-time event has triggered.
	ShouldUpdate() bool
}

// Base carries the state shared by every event variant. Concrete events
// embed it and override the behavior methods they need.
type Base struct {
	name   string
	typeID TypeID

	active    bool
	priority  int
	frequency int

	onCooldown    bool
	cooldownTime  float32
	cooldownTimer float32

	oneTime      bool
	hasTriggered bool

	frameCounter int
}

// NewBase returns base state for a named event of the given type, active
// with every-frame updates.
func NewBase(name string, typeID TypeID) Base {
	return Base{
		name:      name,
		typeID:    typeID,
		active:    true,
		frequency: 1,
	}
}

func (b *Base) Name() string   { return b.name }
func (b *Base) TypeID() TypeID { return b.typeID }

func (b *Base) Active() bool        { return b.active }
func (b *Base) SetActive(a bool)    { b.active = a }
func (b *Base) Priority() int       { return b.priority }
func (b *Base) SetPriority(p int)   { b.priority = p }
func (b *Base) UpdateFrequency() int { return b.frequency }

func (b *Base) SetUpdateFrequency(framesPerUpdate int) {
	if framesPerUpdate < 1 {
		framesPerUpdate = 1
	}
	b.frequency = framesPerUpdate
}

func (b *Base) Cooldown() float32            { return b.cooldownTime }
func (b *Base) SetCooldown(seconds float32)  { b.cooldownTime = seconds }
func (b *Base) OnCooldown() bool             { return b.onCooldown }

// StartCooldown arms the cooldown timer; counting begins on the next
// UpdateCooldown call.
func (b *Base) StartCooldown() {
	if b.cooldownTime > 0 {
		b.onCooldown = true
		b.cooldownTimer = 0
	}
}

func (b *Base) ResetCooldown() {
	b.onCooldown = false
	b.cooldownTimer = 0
}

func (b *Base) UpdateCooldown(dt float32) {
	if !b.onCooldown {
		return
	}
	b.cooldownTimer += dt
	if b.cooldownTimer >= b.cooldownTime {
		b.onCooldown = false
		b.cooldownTimer = 0
	}
}

func (b *Base) OneTime() bool      { return b.oneTime }
func (b *Base) SetOneTime(o bool)  { b.oneTime = o }
func (b *Base) HasTriggered() bool { return b.hasTriggered }

// MarkTriggered latches the one-time state. Variants call it from Execute.
func (b *Base) MarkTriggered() { b.hasTriggered = true }

func (b *Base) ShouldUpdate() bool {
	if !b.active || b.onCooldown {
		return false
	}
	if b.oneTime && b.hasTriggered {
		return false
	}
	if b.frequency > 1 {
		b.frameCounter++
		if b.frameCounter%b.frequency != 0 {
			return false
		}
	}
	return true
}

// Reset clears the triggered latch and cooldown.
func (b *Base) Reset() {
	b.hasTriggered = false
	b.ResetCooldown()
	b.frameCounter = 0
}

// Default no-op behavior; variants override what they use.
func (b *Base) Update()              {}
func (b *Base) Execute()             {}
func (b *Base) Clean()               {}
func (b *Base) CheckConditions() bool { return true }
func (b *Base) OnMessage(string)     {}
