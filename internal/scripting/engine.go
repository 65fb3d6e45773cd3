package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM holding the harbor's tunable rules.
// Single-goroutine access only (game loop). A rule the scripts do not
// define, or one that errors, falls back to DefaultRules.
type Engine struct {
	vm       *lua.LState
	log      *zap.Logger
	fallback DefaultRules
}

// NewEngine creates a Lua engine and loads every script under scriptsDir/rules.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "rules")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load rule scripts: %w", err)
	}
	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
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

func (e *Engine) call(name string, args ...lua.LValue) (lua.LValue, bool) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return lua.LNil, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		e.log.Error("lua rule error", zap.String("fn", name), zap.Error(err))
		return lua.LNil, false
	}
	ret := e.vm.Get(-1)
	e.vm.Pop(1)
	return ret, true
}

// TripPayout calls the Lua trip_payout function.
func (e *Engine) TripPayout(ctx TripContext) Payout {
	t := e.vm.NewTable()
	t.RawSetString("boat_type", lua.LString(ctx.BoatType.String()))
	t.RawSetString("phase", lua.LString(ctx.Phase))
	t.RawSetString("market_health", lua.LNumber(ctx.MarketHealth))
	t.RawSetString("engine", lua.LString(ctx.Engine))
	t.RawSetString("net", lua.LString(ctx.Net))
	t.RawSetString("crates", lua.LNumber(ctx.Crates))

	ret, ok := e.call("trip_payout", t)
	if !ok {
		return e.fallback.TripPayout(ctx)
	}
	rt, isTable := ret.(*lua.LTable)
	if !isTable {
		e.log.Error("lua trip_payout returned non-table")
		return e.fallback.TripPayout(ctx)
	}
	return Payout{
		Revenue: int(math.Round(float64(lua.LVAsNumber(rt.RawGetString("revenue"))))),
		Catch:   int(math.Round(float64(lua.LVAsNumber(rt.RawGetString("catch"))))),
	}
}

// VisitorInterval calls the Lua visitor_interval function. A nil return
// means no visitors at this market health.
func (e *Engine) VisitorInterval(health float64) (float64, bool) {
	ret, ok := e.call("visitor_interval", lua.LNumber(health))
	if !ok {
		return e.fallback.VisitorInterval(health)
	}
	if ret == lua.LNil {
		return 0, false
	}
	n, isNum := ret.(lua.LNumber)
	if !isNum || n <= 0 {
		e.log.Error("lua visitor_interval returned invalid value", zap.String("value", ret.String()))
		return e.fallback.VisitorInterval(health)
	}
	return float64(n), true
}
