package hooks

import (
	"fmt"
	"hookdeps/internal/core/errors"
	"hookdeps/internal/engine/scope"
	"sort"
	"strings"
)

type StaticForm int

const (
	// StaticBool marks the whole return value.
	StaticBool StaticForm = iota
	// StaticTuple marks array positions of a destructured return.
	StaticTuple
	// StaticKeys marks object keys of a destructured return.
	StaticKeys
)

// StaticHookSpec declares which parts of a hook's return value keep their
// identity across renders.
type StaticHookSpec struct {
	Form  StaticForm
	Whole bool
	Tuple []bool
	Keys  map[string]bool
}

func StaticWhole(v bool) StaticHookSpec { return StaticHookSpec{Form: StaticBool, Whole: v} }

func StaticPositions(v ...bool) StaticHookSpec {
	return StaticHookSpec{Form: StaticTuple, Tuple: append([]bool(nil), v...)}
}

func StaticProperties(keys map[string]bool) StaticHookSpec {
	cp := make(map[string]bool, len(keys))
	for k, v := range keys {
		cp[k] = v
	}
	return StaticHookSpec{Form: StaticKeys, Keys: cp}
}

// Resolve reports whether a binding at slot of the hook's result is static.
// A true boolean spec covers every part of the value. Positional and keyed
// specs only apply to the matching destructure form.
func (s StaticHookSpec) Resolve(slot scope.Slot) bool {
	switch s.Form {
	case StaticBool:
		return s.Whole
	case StaticTuple:
		if slot.Kind != scope.SlotIndex || slot.Index >= len(s.Tuple) {
			return false
		}
		return s.Tuple[slot.Index]
	case StaticKeys:
		if slot.Kind != scope.SlotKey {
			return false
		}
		return s.Keys[slot.Key]
	}
	return false
}

func (s StaticHookSpec) String() string {
	switch s.Form {
	case StaticBool:
		return fmt.Sprint(s.Whole)
	case StaticTuple:
		return fmt.Sprint(s.Tuple)
	}
	keys := make([]string, 0, len(s.Keys))
	for k := range s.Keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s = %t", k, s.Keys[k])
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// ParseStaticHookSpec converts a decoded configuration value (TOML or JSON)
// into a spec: a bool, an array of bools, or a table of bools.
func ParseStaticHookSpec(v any) (StaticHookSpec, error) {
	switch t := v.(type) {
	case bool:
		return StaticWhole(t), nil
	case []bool:
		return StaticPositions(t...), nil
	case []any:
		out := make([]bool, len(t))
		for i, e := range t {
			b, ok := e.(bool)
			if !ok {
				return StaticHookSpec{}, errors.New(errors.CodeValidationError,
					fmt.Sprintf("static hook position %d must be a boolean, got %T", i, e))
			}
			out[i] = b
		}
		return StaticPositions(out...), nil
	case map[string]bool:
		return StaticProperties(t), nil
	case map[string]any:
		out := make(map[string]bool, len(t))
		for k, e := range t {
			b, ok := e.(bool)
			if !ok {
				return StaticHookSpec{}, errors.New(errors.CodeValidationError,
					fmt.Sprintf("static hook key %q must be a boolean, got %T", k, e))
			}
			out[k] = b
		}
		return StaticProperties(out), nil
	}
	return StaticHookSpec{}, errors.New(errors.CodeValidationError,
		fmt.Sprintf("static hook spec must be a boolean, array or table, got %T", v))
}

// builtinStatic lists the hooks whose results React guarantees stable.
func builtinStatic() map[string]StaticHookSpec {
	setter := StaticPositions(false, true)
	return map[string]StaticHookSpec{
		"useRef":         StaticWhole(true),
		"useState":       setter,
		"useReducer":     setter,
		"useActionState": setter,
		"useTransition":  setter,
	}
}
