package functions

import (
	"context"
	"fmt"

	"github.com/logingood/nut-dmf/models"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Lua runs snippets written in Lua. Every evaluation gets a fresh state so
// snippets cannot leak globals into each other.
type Lua struct {
	logger *zap.Logger
}

var _ models.Evaluator = (*Lua)(nil)

func NewLua(logger *zap.Logger) *Lua {
	return &Lua{logger: logger}
}

func (l *Lua) Supports(language string) bool {
	return language == "lua" || language == ""
}

// Evaluate loads the snippet and calls its global called function with no
// arguments. Names such as "ups.mfr" are looked up as plain keys of the
// globals table.
func (l *Lua) Evaluate(ctx context.Context, snippet models.FunctionSnippet, function string) (string, error) {
	if !l.Supports(snippet.Language) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, snippet.Language)
	}

	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	if err := L.DoString(snippet.Code); err != nil {
		l.logger.Error("error loading lua functions", zap.String("functionset", snippet.Name), zap.Error(err))
		return "", fmt.Errorf("load %s: %w", snippet.Name, err)
	}

	fn, ok := L.GetGlobal(function).(*lua.LFunction)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoFunction, function)
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		l.logger.Error("error executing lua function", zap.String("function", function), zap.Error(err))
		return "", fmt.Errorf("call %s: %w", function, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case lua.LString:
		return string(v), nil
	case lua.LNumber, lua.LBool:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: %s returned %s", ErrNoResult, function, ret.Type())
}
