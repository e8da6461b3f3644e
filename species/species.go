// Package species binds a particle species' density profile, placement
// policy, density scaling and attribute schema, built from configuration.
package species

import (
	"fmt"

	"github.com/nzeal/picongpu/config"
	"github.com/nzeal/picongpu/density"
	"github.com/nzeal/picongpu/particle"
	"github.com/nzeal/picongpu/startpos"
)

// Species is one particle species to seed.
type Species struct {
	Name string
	// Profile maps absolute cell coordinates to relative density.
	Profile density.Profile
	// DensityScale converts relative density to physical density (1/m^3):
	// base density times the species density ratio.
	DensityScale float64
	// Policy builds the per-cell position functor.
	Policy startpos.Policy
	// Schema declares the species attributes beyond the mandatory columns.
	Schema particle.Schema
	// PPC is the macro-particle count per cell at full density.
	PPC int
}

// FromConfig builds all configured species.
func FromConfig(cfg *config.Config) ([]*Species, error) {
	out := make([]*Species, 0, len(cfg.Species))
	for _, sc := range cfg.Species {
		profile, err := density.FromConfig(cfg.Profiles[cfg.Derived.ProfileIndex[sc.Profile]])
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", sc.Name, err)
		}

		var policy startpos.Policy
		switch sc.Placement {
		case "quiet":
			policy = startpos.Quiet{PPC: sc.ParticlesPerCell, MinWeighting: sc.MinWeighting}
		case "random":
			policy = startpos.Random{PPC: sc.ParticlesPerCell, MinWeighting: sc.MinWeighting, Seed: sc.Seed}
		case "one_position":
			policy = startpos.OnePosition{
				PPC:          sc.ParticlesPerCell,
				MinWeighting: sc.MinWeighting,
				Position: [3]float32{
					float32(sc.Position[0]),
					float32(sc.Position[1]),
					float32(sc.Position[2]),
				},
			}
		default:
			return nil, fmt.Errorf("species %q: unknown placement %q", sc.Name, sc.Placement)
		}

		schema, err := schemaFromConfig(sc.Attributes)
		if err != nil {
			return nil, fmt.Errorf("species %q: %w", sc.Name, err)
		}

		out = append(out, &Species{
			Name:         sc.Name,
			Profile:      profile,
			DensityScale: sc.BaseDensity * sc.DensityRatio,
			Policy:       policy,
			Schema:       schema,
			PPC:          sc.ParticlesPerCell,
		})
	}
	return out, nil
}

func schemaFromConfig(attrs []config.AttributeConfig) (particle.Schema, error) {
	schema := make(particle.Schema, 0, len(attrs))
	for _, a := range attrs {
		spec := particle.AttributeSpec{Name: a.Name}
		switch a.Kind {
		case "vec3":
			spec.Kind = particle.Vec3
			for i := 0; i < 3 && i < len(a.Default); i++ {
				spec.Default[i] = float32(a.Default[i])
			}
		case "scalar":
			spec.Kind = particle.Scalar
			if len(a.Default) > 0 {
				spec.Default[0] = float32(a.Default[0])
			}
		default:
			return nil, fmt.Errorf("attribute %q: unknown kind %q", a.Name, a.Kind)
		}
		schema = append(schema, spec)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}
