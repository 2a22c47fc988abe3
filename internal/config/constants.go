// Package config holds the compiler's default knobs and the cmd/pmc CLI's
// on-disk configuration format, read with gopkg.in/yaml.v3.
package config

// DefaultVectorKind is the Kind tag a bare vector pattern with no explicit
// kind wrapper translates to.
const DefaultVectorKind = "vector"

// DefaultTrace is whether cmd/pmc prints the compiled decision tree when
// no -trace flag is given.
const DefaultTrace = false

// SourceFileExt is the extension of pmc source files. cmd/pmc takes a
// single file path of any name and does not read directories, so it does
// not consult this constant.
const SourceFileExt = ".match"

// VectorKindConfig describes one registered vector-kind tag loaded from a
// YAML config file.
type VectorKindConfig struct {
	Name       string `yaml:"name"`
	Coerce     bool   `yaml:"coerce"`
	CoerceCall string `yaml:"coerceCall"`
}

// File is the shape of a cmd/pmc config file (pmc.yaml).
type File struct {
	Trace       bool               `yaml:"trace"`
	VectorKinds []VectorKindConfig `yaml:"vectorKinds"`
	Locals      []string           `yaml:"locals"`
}
