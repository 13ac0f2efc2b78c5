// Package debugger implements the step/breakpoint front-end spec.md §4.9
// describes, driving an *vm.VM one instruction at a time through its
// Hook rather than owning any execution logic itself — the VM stays a
// plain interpreter; the debugger is just a policy that decides, before
// each instruction, whether to pause into a REPL.
package debugger

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Breakpoint is one entry of a breakpoint session file (SPEC_FULL.md §1
// "debugger's optional breakpoint session file (--bp-file)"), and the
// key a pause check is performed against (spec.md §4.9: "a set of
// breakpoints keyed by (code_id, ip)").
type Breakpoint struct {
	CodeID string `yaml:"code_id"`
	IP     int    `yaml:"ip"`
}

// LoadBreakpoints reads a YAML list of breakpoints from path on fs
// (grounded on grafana-k6's heavy yaml.v3 use for config/session files,
// SPEC_FULL.md §1's "Config/session serialization").
func LoadBreakpoints(fs afero.Fs, path string) ([]Breakpoint, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "ler arquivo de pontos de parada %s", path)
	}
	var bps []Breakpoint
	if err := yaml.Unmarshal(data, &bps); err != nil {
		return nil, errors.Wrapf(err, "decodificar %s", path)
	}
	return bps, nil
}

// SaveBreakpoints writes bps to path on fs as a YAML list, the save side
// of --bp-file.
func SaveBreakpoints(fs afero.Fs, path string, bps []Breakpoint) error {
	data, err := yaml.Marshal(bps)
	if err != nil {
		return errors.Wrap(err, "codificar pontos de parada")
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.Wrapf(err, "escrever %s", path)
	}
	return nil
}
