package resolve

import (
	"strings"

	"github.com/lucianomartinezm628-prog/isomorph/pkg/matrix"
	"github.com/lucianomartinezm628-prog/isomorph/pkg/token"
)

// flatParticles is the context-free table. Unmatched particles pass through
// unchanged.
var flatParticles = map[string]string{
	"wa":  "y",
	"fi":  "en",
	"min": "de",
	"ala": "sobre",
	"bi":  "con",
}

// roleParticles maps (function role, token) to a role-specific target.
// Particles are polyvalent: when the slot carries a role, the role table is
// consulted before the flat one.
var roleParticles = map[token.FuncRole]map[string]string{
	token.RoleRegimen: {
		"bi": "mediante",
		"li": "para",
	},
	token.RoleNexoLogico: {
		"wa": "y",
		"fa": "entonces",
		"aw": "o",
	},
	token.RoleMarcaCasual: {
		"li":  "a",
		"min": "desde",
	},
	token.RoleAdverbial: {
		"fi": "dentro de",
	},
}

// ParticleResolver maps particle slots through the fixed tables.
type ParticleResolver struct {
	flat  map[string]string
	roles map[token.FuncRole]map[string]string
}

// NewParticleResolver builds the resolver over the built-in tables.
func NewParticleResolver() *ParticleResolver {
	return &ParticleResolver{flat: flatParticles, roles: roleParticles}
}

// Resolve returns the ranked candidates for a particle slot; the first entry
// is the chosen one. Role-specific mappings rank above the flat table.
func (r *ParticleResolver) Resolve(slot *matrix.Slot) []string {
	key := strings.ToLower(slot.Source)
	var candidates []string
	if slot.Role != token.RoleNone {
		if table, ok := r.roles[slot.Role]; ok {
			if tgt, ok := table[key]; ok {
				candidates = append(candidates, tgt)
			}
		}
	}
	if tgt, ok := r.flat[key]; ok && (len(candidates) == 0 || candidates[0] != tgt) {
		candidates = append(candidates, tgt)
	}
	if len(candidates) == 0 {
		candidates = append(candidates, slot.Source)
	}
	return candidates
}
