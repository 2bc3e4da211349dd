// config_validation.go: Rule based value validation and registry health checks
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

import (
	"fmt"
	"strings"

	"github.com/agilira/go-errors"
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprValidator compiles expression into a validate hook. The expression
// sees the variables value, old, default, name and source, and must
// evaluate to a boolean; false or an evaluation error faults the write.
//
//	check, err := params.ExprValidator[int32, params.ValueAssistant]("value >= 0 && value <= 100")
//	if err != nil { ... }
//	percent.SetOnValidate(check)
func ExprValidator[T, A any](expression string) (ValidateFunc[T, A], error) {
	program, err := compileRule(expression)
	if err != nil {
		return nil, err
	}
	return func(p *Typed[T, A], old T, value *T, def T, src SourceType) {
		env := map[string]any{
			"value":   exprValue(*value),
			"old":     exprValue(old),
			"default": exprValue(def),
			"name":    p.Name(),
			"source":  src.String(),
		}
		ok, err := runRule(program, env)
		if err != nil {
			p.Fault()
			logger().Error("parameter validation rule failed", "param", p.Name(), "rule", expression, "error", err)
			return
		}
		if !ok {
			p.Fault()
			logger().Warn("parameter value rejected by validation rule", "param", p.Name(), "rule", expression,
				"value", fmt.Sprint(*value))
		}
	}, nil
}

func compileRule(expression string) (*exprvm.Program, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, errors.New(ErrCodeInvalidExpression, "validation expression must not be empty")
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidExpression, "invalid validation expression").
			WithContext("expression", expression)
	}
	return program, nil
}

func runRule(program *exprvm.Program, env map[string]any) (bool, error) {
	out, err := exprlang.Run(program, env)
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("rule returned %T, want bool", out)
	}
	return ok, nil
}

// exprValue widens fixed-size numbers so rules can compare them with
// integer and float literals.
func exprValue(v any) any {
	switch x := v.(type) {
	case int32:
		return int(x)
	case []int32:
		out := make([]int, len(x))
		for i, n := range x {
			out[i] = int(n)
		}
		return out
	default:
		return v
	}
}

// ValidationResult summarises the health of a registry set.
type ValidationResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// String returns a human-readable representation of validation results
func (vr ValidationResult) String() string {
	if vr.Valid {
		if len(vr.Warnings) == 0 {
			return "Parameters are valid"
		}
		return fmt.Sprintf("Parameters are valid with %d warning(s)", len(vr.Warnings))
	}
	return fmt.Sprintf("Parameters are invalid: %d error(s), %d warning(s)", len(vr.Errors), len(vr.Warnings))
}

// ValidateSet checks set for parameters whose last write faulted (errors),
// init parameters that were never set and names declared in more than one
// layer (warnings).
func ValidateSet(set *RegistrySet) ValidationResult {
	result := ValidationResult{Valid: true}

	for _, it := range collectReportItems(set) {
		p := it.p
		if p.HasFaulted() {
			result.Errors = append(result.Errors,
				fmt.Sprintf("parameter '%s' rejected its last value; it still holds %s", p.Name(), p.FormattedValue()))
		}
		if p.IsInit() && !p.IsSet() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("init parameter '%s' was never set", p.Name()))
		}
	}

	if _, err := set.FlattenedCopy(AnyParamType); err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}

	result.Valid = len(result.Errors) == 0
	return result
}
