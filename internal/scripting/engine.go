package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for custom event logic.
// Single-goroutine access only (main loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory tree.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	for _, sub := range []string{"events", "effects"} {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasFunction reports whether a global Lua function is defined.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// CallCondition invokes a Lua predicate and returns its boolean result.
// A missing function is an error so misconfigured events surface early.
func (e *Engine) CallCondition(hook string) (bool, error) {
	fn := e.vm.GetGlobal(hook)
	if fn == lua.LNil {
		return false, fmt.Errorf("lua function %s not found", hook)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}); err != nil {
		return false, fmt.Errorf("lua %s: %w", hook, err)
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return lua.LVAsBool(result), nil
}

// CallAction invokes a Lua function with no arguments or results.
func (e *Engine) CallAction(hook string) error {
	fn := e.vm.GetGlobal(hook)
	if fn == lua.LNil {
		return fmt.Errorf("lua function %s not found", hook)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		Protect: true,
	}); err != nil {
		return fmt.Errorf("lua %s: %w", hook, err)
	}
	return nil
}

// CallMessage invokes a Lua function with the message body.
func (e *Engine) CallMessage(hook, body string) error {
	fn := e.vm.GetGlobal(hook)
	if fn == lua.LNil {
		return fmt.Errorf("lua function %s not found", hook)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		Protect: true,
	}, lua.LString(body)); err != nil {
		return fmt.Errorf("lua %s: %w", hook, err)
	}
	return nil
}

// DoString executes a chunk of Lua source directly. Test helper and
// console hook.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}
