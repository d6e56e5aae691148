package matrix

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/gridrun/internal/config"
	griderrors "github.com/alexisbeaulieu97/gridrun/pkg/errors"
)

// StepSpec is one external command invocation with its placeholders
// already resolved against the owning job's axis values.
type StepSpec struct {
	ID      string
	Name    string
	Command string
	Shell   string
	WorkDir string
	Env     map[string]string
}

// JobSpec is one concrete combination of axis values plus the resolved
// step sequence. JobSpecs are read-only once expansion completes.
type JobSpec struct {
	ID       string
	Values   map[string]string
	Tolerant bool
	Steps    []StepSpec
}

// Expand turns the declared matrix and step sequence into the full
// ordered job list: the cross product of all axes in declaration order,
// followed by append-mode includes in declaration order, with merge-mode
// includes applied on top of the base product.
func Expand(cfg *config.Config) ([]JobSpec, error) {
	axes := cfg.Matrix.Axes

	jobs := make([]JobSpec, 0, 4)
	for _, values := range crossProduct(axes) {
		jobs = append(jobs, JobSpec{Values: values, Tolerant: defaultTolerant(axes, values)})
	}

	for i, include := range cfg.Matrix.Include {
		if len(include.Where) > 0 {
			matched := false
			for j := range jobs {
				if !matchesWhere(jobs[j].Values, include.Where) {
					continue
				}
				matched = true
				for key, value := range include.Values {
					jobs[j].Values[key] = value
				}
				if include.Tolerant != nil {
					jobs[j].Tolerant = *include.Tolerant
				}
			}
			if !matched {
				return nil, griderrors.NewValidationError(fieldForInclude(i), "where matches no job in the base product", nil)
			}
			continue
		}

		values := make(map[string]string, len(include.Values))
		for key, value := range include.Values {
			values[key] = value
		}
		job := JobSpec{Values: values, Tolerant: defaultTolerant(axes, values)}
		if include.Tolerant != nil {
			job.Tolerant = *include.Tolerant
		}
		jobs = append(jobs, job)
	}

	if len(jobs) == 0 {
		return nil, griderrors.NewValidationError("matrix", "expansion produced no jobs", nil)
	}

	seen := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		id := jobID(axes, jobs[i].Values)
		if _, dup := seen[id]; dup {
			return nil, griderrors.NewValidationError("matrix", fmt.Sprintf("duplicate job %q after expansion", id), nil)
		}
		seen[id] = struct{}{}
		jobs[i].ID = id
	}

	for i := range jobs {
		steps, err := resolveSteps(cfg.Steps, jobs[i].Values)
		if err != nil {
			return nil, err
		}
		jobs[i].Steps = steps
	}

	return jobs, nil
}

// crossProduct enumerates every combination of axis values. The first
// declared axis varies slowest, giving a stable report order.
func crossProduct(axes []config.Axis) []map[string]string {
	if len(axes) == 0 {
		return nil
	}

	total := 1
	for _, axis := range axes {
		total *= len(axis.Values)
	}

	combos := make([]map[string]string, 0, total)
	idx := make([]int, len(axes))
	for {
		values := make(map[string]string, len(axes))
		for i, axis := range axes {
			values[axis.Name] = axis.Values[idx[i]]
		}
		combos = append(combos, values)

		i := len(axes) - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(axes[i].Values) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			break
		}
	}

	return combos
}

func defaultTolerant(axes []config.Axis, values map[string]string) bool {
	for _, axis := range axes {
		value, ok := values[axis.Name]
		if !ok {
			continue
		}
		for _, experimental := range axis.Experimental {
			if value == experimental {
				return true
			}
		}
	}
	return false
}

func matchesWhere(values, where map[string]string) bool {
	for key, want := range where {
		if values[key] != want {
			return false
		}
	}
	return true
}

func jobID(axes []config.Axis, values map[string]string) string {
	parts := make([]string, 0, len(axes))
	for _, axis := range axes {
		parts = append(parts, sanitizeIDPart(values[axis.Name]))
	}
	return strings.Join(parts, "-")
}

func sanitizeIDPart(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '-'
		}
	}, value)
}

func fieldForInclude(index int) string {
	return fmt.Sprintf("matrix.include[%d]", index)
}
