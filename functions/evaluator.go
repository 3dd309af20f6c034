// Package functions evaluates the code snippets a DMF document may embed
// in functionset tags to compute mapping values.
package functions

import (
	"context"
	"errors"

	"github.com/logingood/nut-dmf/models"
)

// DefaultLanguage is assumed for function tags without a language attribute.
const DefaultLanguage = "lua"

var (
	ErrUnsupportedLanguage = errors.New("function language is not supported")
	ErrFunctionsDisabled   = errors.New("dynamic functions are disabled")
	ErrNoFunction          = errors.New("function is not defined by the snippet")
	ErrNoResult            = errors.New("function returned no value")
)

// Disabled is the evaluator used when dynamic functions are turned off.
type Disabled struct{}

var _ models.Evaluator = Disabled{}

func (Disabled) Supports(string) bool { return false }

func (Disabled) Evaluate(context.Context, models.FunctionSnippet, string) (string, error) {
	return "", ErrFunctionsDisabled
}
