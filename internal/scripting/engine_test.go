package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emberforge/engine/internal/event"
)

func newTestEngine(t *testing.T, files map[string]string) *Engine {
	t.Helper()
	dir := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestNewEngineLoadsScriptTree(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"top.lua":           "function top_fn() return true end",
		"events/quest.lua":  "function quest_fn() return true end",
		"effects/glow.lua":  "function glow_fn() return true end",
		"events/notes.txt":  "not a script",
		"events/sub/x.lua":  "function hidden_fn() end", // nested dirs are not walked
	})

	assert.True(t, e.HasFunction("top_fn"))
	assert.True(t, e.HasFunction("quest_fn"))
	assert.True(t, e.HasFunction("glow_fn"))
	assert.False(t, e.HasFunction("hidden_fn"))
}

func TestNewEngineMissingDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
	assert.False(t, e.HasFunction("anything"))
}

func TestNewEngineBrokenScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function oops("), 0o644))

	_, err := NewEngine(dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.lua")
}

func TestAPIVersionExposed(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"check.lua": "function api_ok() return API_VERSION == 1 end",
	})
	ok, err := e.CallCondition("api_ok")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCallCondition(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.DoString(`
		armed = false
		function is_armed() return armed end
	`))

	ok, err := e.CallCondition("is_armed")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, e.DoString("armed = true"))
	ok, err = e.CallCondition("is_armed")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCallConditionMissingFunction(t *testing.T) {
	e := newTestEngine(t, nil)
	_, err := e.CallCondition("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCallAction(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.DoString(`
		fired = 0
		function on_fire() fired = fired + 1 end
	`))

	require.NoError(t, e.CallAction("on_fire"))
	require.NoError(t, e.CallAction("on_fire"))
	require.NoError(t, e.DoString("assert(fired == 2)"))
}

func TestCallActionRuntimeError(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.DoString(`function explode() error("kaboom") end`))

	err := e.CallAction("explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestCallMessagePassesBody(t *testing.T) {
	e := newTestEngine(t, nil)
	require.NoError(t, e.DoString(`
		last = ""
		function on_msg(body) last = body end
	`))

	require.NoError(t, e.CallMessage("on_msg", "CHANGE:Rainy:2"))
	require.NoError(t, e.DoString(`assert(last == "CHANGE:Rainy:2")`))
}

func TestEngineDrivesScriptedEvent(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"events/ritual.lua": `
			ready = true
			runs = 0
			function ritual_ready() return ready end
			function ritual_run() runs = runs + 1 end
			function ritual_msg(body) if body == "halt" then ready = false end end
		`,
	})

	ev := event.NewScriptedEvent("ritual", e)
	ev.SetHooks("ritual_ready", "ritual_run", "ritual_msg")

	require.True(t, ev.CheckConditions())
	ev.Execute()
	require.NoError(t, e.DoString("assert(runs == 1)"))

	ev.OnMessage("halt")
	assert.False(t, ev.CheckConditions())
	assert.NoError(t, ev.LastError())
}
