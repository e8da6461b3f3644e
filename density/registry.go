package density

import (
	"fmt"

	"github.com/nzeal/picongpu/config"
)

// FromConfig builds the profile a config entry declares.
func FromConfig(pc config.ProfileConfig) (Profile, error) {
	switch pc.Kind {
	case "uniform":
		return Uniform{Value: pc.Value}, nil
	case "gaussian":
		return GaussianCloud{Center: pc.Center, Sigma: pc.Sigma}, nil
	case "ramp":
		return LinearRamp{Axis: pc.Axis, From: pc.From, To: pc.To}, nil
	case "sphere":
		return Sphere{Center: pc.Center, Radius: pc.Radius}, nil
	case "fbm":
		return FBM{
			Wavelength: pc.Wavelength,
			Octaves:    pc.Octaves,
			Lacunarity: pc.Lacunarity,
			Gain:       pc.Gain,
			Contrast:   pc.Contrast,
			Seed:       uint32(pc.Seed),
		}, nil
	case "simplex":
		return NewSimplex(pc.Seed, pc.Wavelength, pc.Threshold), nil
	default:
		return nil, fmt.Errorf("density: profile %q has unknown kind %q", pc.Name, pc.Kind)
	}
}
