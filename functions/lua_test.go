package functions

import (
	"context"
	"errors"
	"testing"

	"github.com/logingood/nut-dmf/models"
	"go.uber.org/zap/zaptest"
)

func TestLuaEvaluate(t *testing.T) {
	ev := NewLua(zaptest.NewLogger(t))

	tests := []struct {
		name     string
		snippet  models.FunctionSnippet
		function string
		want     string
		wantErr  error
	}{
		{
			name: "string result",
			snippet: models.FunctionSnippet{
				Name: "eaton", Language: "lua",
				Code: `function mfr() return "EATON" end`,
			},
			function: "mfr",
			want:     "EATON",
		},
		{
			name: "dotted global",
			snippet: models.FunctionSnippet{
				Name: "eaton", Language: "lua",
				Code: `_G["ups.mfr"] = function() return "Eaton" .. " Corp" end`,
			},
			function: "ups.mfr",
			want:     "Eaton Corp",
		},
		{
			name: "number result",
			snippet: models.FunctionSnippet{
				Code: `function load() return 40 + 2 end`,
			},
			function: "load",
			want:     "42",
		},
		{
			name: "missing function",
			snippet: models.FunctionSnippet{
				Code: `function other() return "x" end`,
			},
			function: "ups.mfr",
			wantErr:  ErrNoFunction,
		},
		{
			name: "nil result",
			snippet: models.FunctionSnippet{
				Code: `function nothing() end`,
			},
			function: "nothing",
			wantErr:  ErrNoResult,
		},
		{
			name: "other language",
			snippet: models.FunctionSnippet{
				Language: "python",
				Code:     "def f(): return 1",
			},
			function: "f",
			wantErr:  ErrUnsupportedLanguage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(context.Background(), tt.snippet, tt.function)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Evaluate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Evaluate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLuaSyntaxError(t *testing.T) {
	ev := NewLua(zaptest.NewLogger(t))
	_, err := ev.Evaluate(context.Background(), models.FunctionSnippet{Code: "function ("}, "f")
	if err == nil {
		t.Fatal("expected a load error")
	}
}

func TestLuaCanceled(t *testing.T) {
	ev := NewLua(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ev.Evaluate(ctx, models.FunctionSnippet{Code: `function spin() while true do end end`}, "spin")
	if err == nil {
		t.Fatal("expected the canceled context to stop the function")
	}
}

func TestDisabled(t *testing.T) {
	var ev models.Evaluator = Disabled{}
	if ev.Supports("lua") {
		t.Fatal("disabled evaluator supports lua")
	}
	m := models.MappingEntry{InfoType: "ups.mfr", Function: &models.FunctionSnippet{Code: "x"}}
	if _, err := m.Compute(context.Background(), ev); !errors.Is(err, ErrFunctionsDisabled) {
		t.Fatalf("Compute() error = %v, want ErrFunctionsDisabled", err)
	}
}
