package engine

import (
	"github.com/arthur-debert/cloak/pkg/types"
)

// ConfirmFunc approves hiding one candidate. Returning an error aborts Tidy.
type ConfirmFunc func(name string) (bool, error)

// Candidates filters catalog to the names currently visible under the root,
// in catalog order.
func (e *Engine) Candidates(catalog []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, name := range catalog {
		t, err := e.Target(name)
		if err != nil {
			e.logger.Debug().Err(err).Str("name", name).Msg("Skipping invalid catalog entry")
			continue
		}
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true

		state, _, err := e.classify(t)
		if err != nil {
			return nil, err
		}
		if state == types.StateVisible {
			out = append(out, t.Name)
		}
	}
	return out, nil
}

// Tidy hides every visible catalog entry that confirm approves. A nil
// confirm approves everything. Declined candidates are reported with no
// action.
func (e *Engine) Tidy(catalog []string, confirm ConfirmFunc) ([]types.Result, error) {
	candidates, err := e.Candidates(catalog)
	if err != nil {
		return nil, err
	}
	e.logger.Info().Strs("candidates", candidates).Msg("Tidy candidates")

	results := make([]types.Result, 0, len(candidates))
	for _, name := range candidates {
		if confirm != nil {
			ok, err := confirm(name)
			if err != nil {
				return results, err
			}
			if !ok {
				results = append(results, types.Result{
					Name:   name,
					Action: types.ActionNone,
					From:   types.StateVisible,
					To:     types.StateVisible,
				})
				continue
			}
		}
		results = append(results, e.Hide(name))
	}
	return results, nil
}
