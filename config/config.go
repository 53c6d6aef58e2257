// Package config holds the tunables of a reconstruction run: construction
// policy, optimizer knobs and pipeline settings.
//
// Default returns the documented defaults. Load overlays a TOML (.toml) or
// YAML (.yaml, .yml) file on top of them; keys absent from the file keep
// their defaults. Validate reports every out-of-domain field, each wrapping
// ErrInvalid.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvdepth/builder"
	"github.com/katalvlaran/lvdepth/optimizer"
	"github.com/katalvlaran/lvdepth/patch"
)

var (
	// ErrInvalid indicates a field outside its domain.
	ErrInvalid = errors.New("config: invalid value")
	// ErrFormat indicates a file extension that is neither TOML nor YAML.
	ErrFormat = errors.New("config: unsupported file format")
)

// Config is the full set of tunables.
type Config struct {
	// Construction policy (builder).
	OverlapThreshold     float64 `toml:"overlap_threshold" yaml:"overlap_threshold"`
	OverlapWeight        float64 `toml:"overlap_weight" yaml:"overlap_weight"`
	JunctionScale        float64 `toml:"junction_scale" yaml:"junction_scale"`
	CrossIncidenceWeight float64 `toml:"cross_incidence_weight" yaml:"cross_incidence_weight"`

	// Optimizer.
	Algorithm           string  `toml:"algorithm" yaml:"algorithm"`
	UseWeights          bool    `toml:"use_weights" yaml:"use_weights"`
	KinkTolerance       float64 `toml:"kink_tolerance" yaml:"kink_tolerance"`
	LPInverseDepthFloor float64 `toml:"lp_inverse_depth_floor" yaml:"lp_inverse_depth_floor"`
	SharedRigid         bool    `toml:"shared_rigid" yaml:"shared_rigid"`

	// Pipeline.
	FixedTolerance float64 `toml:"fixed_tolerance" yaml:"fixed_tolerance"`
	Refine         bool    `toml:"refine" yaml:"refine"`
	Workers        int     `toml:"workers" yaml:"workers"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		OverlapThreshold:     builder.DefaultOverlapThreshold,
		OverlapWeight:        builder.DefaultOverlapWeight,
		JunctionScale:        builder.DefaultJunctionScale,
		CrossIncidenceWeight: builder.DefaultCrossIncidenceWeight,
		Algorithm:            string(optimizer.LeastSquaresAlgorithm),
		UseWeights:           true,
		KinkTolerance:        optimizer.DefaultKinkTolerance,
		LPInverseDepthFloor:  optimizer.DefaultLPInverseDepthFloor,
		FixedTolerance:       patch.DefaultFixedTolerance,
		Refine:               false,
		Workers:              4,
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: parsing TOML %s: %w", path, err)
		}
		if und := md.Undecoded(); len(und) > 0 {
			return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, und[0].String(), path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("config: parsing YAML %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes c to path in the format its extension selects.
func Save(path string, c Config) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("config: encoding TOML: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("config: encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("config: encoding YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}

	return nil
}

// Validate returns nil or the joined list of out-of-domain fields.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
	}

	if !(c.OverlapThreshold >= 0 && c.OverlapThreshold <= 1) {
		bad("overlap_threshold %v not in [0,1]", c.OverlapThreshold)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"overlap_weight", c.OverlapWeight},
		{"junction_scale", c.JunctionScale},
		{"cross_incidence_weight", c.CrossIncidenceWeight},
	} {
		if !(f.v >= 0) || math.IsInf(f.v, 0) {
			bad("%s %v must be finite and >= 0", f.name, f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"kink_tolerance", c.KinkTolerance},
		{"lp_inverse_depth_floor", c.LPInverseDepthFloor},
		{"fixed_tolerance", c.FixedTolerance},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			bad("%s %v must be finite and > 0", f.name, f.v)
		}
	}
	if _, err := optimizer.ParseAlgorithm(c.Algorithm); err != nil {
		bad("algorithm %q", c.Algorithm)
	}
	if c.Workers < 1 {
		bad("workers %d must be >= 1", c.Workers)
	}

	return errors.Join(errs...)
}

// BuilderOptions returns the construction policy of c.
// c must be valid.
func (c Config) BuilderOptions() []builder.BuilderOption {
	return []builder.BuilderOption{
		builder.WithOverlapThreshold(c.OverlapThreshold),
		builder.WithOverlapWeight(c.OverlapWeight),
		builder.WithJunctionScale(c.JunctionScale),
		builder.WithCrossIncidenceWeight(c.CrossIncidenceWeight),
	}
}

// OptimizerOptions returns the optimizer knobs of c.
func (c Config) OptimizerOptions() []optimizer.Option {
	return []optimizer.Option{
		optimizer.WithAlgorithm(optimizer.Algorithm(c.Algorithm)),
		optimizer.WithUseWeights(c.UseWeights),
		optimizer.WithKinkTolerance(c.KinkTolerance),
		optimizer.WithLPFloor(c.LPInverseDepthFloor),
		optimizer.WithSharedRigid(c.SharedRigid),
	}
}
