package event

// ScriptRunner executes script callbacks for custom events. The
// scripting package provides the Lua-backed implementation; the event
// core only needs these three calls.
type ScriptRunner interface {
	CallCondition(hook string) (bool, error)
	CallAction(hook string) error
	CallMessage(hook, body string) error
}

// ScriptedEvent is a Custom-type event whose behavior lives in a script.
// Each hook name resolves to a global function in the script runtime;
// empty hook names fall back to defaults (conditions pass, actions are
// no-ops).
type ScriptedEvent struct {
	Base
	runner ScriptRunner

	conditionHook string
	executeHook   string
	messageHook   string

	lastErr error
}

func NewScriptedEvent(name string, runner ScriptRunner) *ScriptedEvent {
	return &ScriptedEvent{Base: NewBase(name, TypeCustom), runner: runner}
}

// SetHooks binds the script function names for conditions, execute, and
// message handling. Empty strings leave the default behavior.
func (e *ScriptedEvent) SetHooks(condition, execute, message string) {
	e.conditionHook = condition
	e.executeHook = execute
	e.messageHook = message
}

func (e *ScriptedEvent) CheckConditions() bool {
	if e.runner == nil || e.conditionHook == "" {
		return true
	}
	ok, err := e.runner.CallCondition(e.conditionHook)
	if err != nil {
		e.lastErr = err
		return false
	}
	return ok
}

func (e *ScriptedEvent) Execute() {
	if e.runner != nil && e.executeHook != "" {
		if err := e.runner.CallAction(e.executeHook); err != nil {
			e.lastErr = err
		}
	}
	e.MarkTriggered()
}

func (e *ScriptedEvent) OnMessage(msg string) {
	if e.runner != nil && e.messageHook != "" {
		if err := e.runner.CallMessage(e.messageHook, msg); err != nil {
			e.lastErr = err
		}
	}
}

// LastError reports the most recent script failure, nil when healthy.
func (e *ScriptedEvent) LastError() error { return e.lastErr }
