package panel

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// file is the on-disk layout of a panel definition. A definition may extend a preset
// and override only some of its fields.
type file struct {
	Base string `toml:"base"`
	Spec
}

// Load reads a panel definition from a TOML file and validates it.
func Load(path string) (Spec, error) {
	if path == "" {
		return Spec{}, fmt.Errorf("panel: path is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return Spec{}, fmt.Errorf("panel: failed to open definition: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a panel definition from r and validates it.
func Decode(r io.Reader) (Spec, error) {
	var base string
	data, err := io.ReadAll(r)
	if err != nil {
		return Spec{}, fmt.Errorf("panel: failed to read definition: %w", err)
	}

	// The preset has to be known before decoding so that absent keys keep its values.
	var head struct {
		Base string `toml:"base"`
	}
	if _, err := toml.Decode(string(data), &head); err != nil {
		return Spec{}, fmt.Errorf("panel: failed to decode definition: %w", err)
	}
	base = strings.TrimSpace(head.Base)

	var def file
	if base != "" {
		if def.Spec, err = Lookup(base); err != nil {
			return Spec{}, err
		}
	}
	md, err := toml.Decode(string(data), &def)
	if err != nil {
		return Spec{}, fmt.Errorf("panel: failed to decode definition: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Spec{}, fmt.Errorf("panel: unknown key %q", undecoded[0].String())
	}
	if err := def.Spec.Validate(); err != nil {
		return Spec{}, err
	}
	return def.Spec, nil
}

// Encode writes s as a TOML panel definition.
func Encode(w io.Writer, s Spec) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("panel: failed to encode definition: %w", err)
	}
	return nil
}
