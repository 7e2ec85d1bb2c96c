package pkglib

import (
	"io"
	"os"

	ls "github.com/db47h/logicsim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// libraryYAML is the layout of a package library file:
//
//	packages:
//	  - id: Xor3
//	    inputs: [A, B, C]
//	    outputs: [Out]
//	    components:
//	      - {id: a, kind: PORT_IN}
//	      ...
//	    connect: "a.out>x1.in1, ..."
//
// Wires are given either as a wires list or with the wiring syntax of
// ls.ParseWires in connect. Both may be used.
//
type libraryYAML struct {
	Packages []packageYAML `yaml:"packages"`
}

type packageYAML struct {
	ls.Definition `yaml:",inline"`
	Connect       string `yaml:"connect,omitempty"`
}

// Decode reads a package library from r.
//
func Decode(r io.Reader) ([]*ls.Definition, error) {
	var lib libraryYAML
	if err := yaml.NewDecoder(r).Decode(&lib); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode library")
	}
	defs := make([]*ls.Definition, 0, len(lib.Packages))
	for i := range lib.Packages {
		p := &lib.Packages[i]
		d := p.Definition
		if p.Connect != "" {
			ws, err := ls.ParseWires(d.Components, p.Connect)
			if err != nil {
				return nil, errors.Wrapf(err, "package %q", d.ID)
			}
			d.Wires = append(d.Wires, ws...)
		}
		defs = append(defs, &d)
	}
	return defs, nil
}

// Encode writes defs to w as a package library.
//
func Encode(w io.Writer, defs []*ls.Definition) error {
	lib := libraryYAML{Packages: make([]packageYAML, len(defs))}
	for i, d := range defs {
		lib.Packages[i].Definition = *d
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(&lib); err != nil {
		return errors.Wrap(err, "encode library")
	}
	return enc.Close()
}

// LoadFile reads the package library at path and registers its definitions in
// r, in file order. A package may only use packages that are already
// registered or that appear before it in the file.
//
func LoadFile(r *ls.Registry, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open library")
	}
	defer f.Close()
	defs, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "library %s", path)
	}
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return ids, errors.Wrapf(err, "library %s", path)
		}
		ids = append(ids, d.ID)
	}
	return ids, nil
}
