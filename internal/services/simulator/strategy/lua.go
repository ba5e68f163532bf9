// Package strategy runs user-provided Lua scripts that decide the extra
// amortization applied each month of a simulation.
package strategy

import (
	"math"
	"strings"

	"github.com/Shopify/go-lua"
	apperrors "github.com/meusanuncios/anuncios/internal/platform/errors"
)

// MaxScriptBytes bounds the accepted script size.
const MaxScriptBytes = 16 * 1024

// extraFunctionName is the global the script must define. It receives
// (month, balance_cents, installment_cents) and returns the extra
// amortization in cents.
const extraFunctionName = "extra"

// LuaExtra evaluates a Lua script once and calls its extra function for
// every month of a schedule. Only the base and math libraries are
// available to the script.
type LuaExtra struct {
	state *lua.State
}

// CompileLuaExtra loads and checks the script.
func CompileLuaExtra(script string) (*LuaExtra, error) {
	if strings.TrimSpace(script) == "" {
		return nil, apperrors.New(apperrors.CodeSimStrategyFailure, "strategy script is empty")
	}
	if len(script) > MaxScriptBytes {
		return nil, apperrors.New(apperrors.CodeSimStrategyFailure, "strategy script is too large")
	}

	state := lua.NewState()
	lua.Require(state, "_G", lua.BaseOpen, true)
	state.Pop(1)
	lua.Require(state, "math", lua.MathOpen, true)
	state.Pop(1)

	if err := lua.DoString(state, script); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSimStrategyFailure, "run strategy script", err)
	}

	state.Global(extraFunctionName)
	defined := state.TypeOf(-1) == lua.TypeFunction
	state.Pop(1)
	if !defined {
		return nil, apperrors.New(apperrors.CodeSimStrategyFailure,
			"strategy script must define an extra(month, balance, installment) function")
	}

	return &LuaExtra{state: state}, nil
}

// ExtraFor calls the script's extra function for one month.
func (s *LuaExtra) ExtraFor(month int, balanceCents, installmentCents int64) (int64, error) {
	s.state.Global(extraFunctionName)
	s.state.PushInteger(month)
	s.state.PushNumber(float64(balanceCents))
	s.state.PushNumber(float64(installmentCents))
	if err := s.state.ProtectedCall(3, 1, 0); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeSimStrategyFailure, "call strategy extra", err)
	}

	value, ok := s.state.ToNumber(-1)
	s.state.Pop(1)
	if !ok {
		return 0, apperrors.New(apperrors.CodeSimStrategyFailure, "strategy extra must return a number")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, apperrors.New(apperrors.CodeSimStrategyFailure, "strategy extra returned an invalid amount")
	}
	return int64(math.Round(value)), nil
}
