package matrix

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/gridrun/internal/config"
	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

const (
	placeholderOpen  = "${{"
	placeholderClose = "}}"
)

// resolveSteps produces the concrete step sequence for one job by
// substituting ${{ axis }} placeholders with the job's axis values.
func resolveSteps(steps []config.Step, values map[string]string) ([]StepSpec, error) {
	resolved := make([]StepSpec, 0, len(steps))
	for _, step := range steps {
		spec := StepSpec{ID: step.ID, Shell: step.Shell}

		var err error
		if spec.Name, err = resolvePlaceholders(step.Name, values, step.ID); err != nil {
			return nil, err
		}
		if spec.Command, err = resolvePlaceholders(step.Command, values, step.ID); err != nil {
			return nil, err
		}
		if spec.WorkDir, err = resolvePlaceholders(step.WorkDir, values, step.ID); err != nil {
			return nil, err
		}

		if len(step.Env) > 0 {
			spec.Env = make(map[string]string, len(step.Env))
			for key, value := range step.Env {
				expanded, err := resolvePlaceholders(value, values, step.ID)
				if err != nil {
					return nil, err
				}
				spec.Env[key] = expanded
			}
		}

		resolved = append(resolved, spec)
	}
	return resolved, nil
}

func resolvePlaceholders(input string, values map[string]string, stepID string) (string, error) {
	if !strings.Contains(input, placeholderOpen) {
		return input, nil
	}

	var b strings.Builder
	rest := input
	for {
		start := strings.Index(rest, placeholderOpen)
		if start < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}

		end := strings.Index(rest[start:], placeholderClose)
		if end < 0 {
			return "", griderrors.NewValidationError(stepID, fmt.Sprintf("unterminated placeholder in %q", input), nil)
		}
		end += start

		name := strings.TrimSpace(rest[start+len(placeholderOpen) : end])
		value, ok := values[name]
		if !ok {
			return "", griderrors.NewValidationError(stepID, fmt.Sprintf("placeholder references unknown axis %q", name), nil)
		}

		b.WriteString(rest[:start])
		b.WriteString(value)
		rest = rest[end+len(placeholderClose):]
	}
}
