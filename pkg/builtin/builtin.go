// Package builtin holds the handful of demo IRs assembled through the
// ir.Builder API: there is no front-end parser in scope, so these
// stand in for "load a design" the way a real front end would. Each
// one reproduces one of the end-to-end scenarios the simulation core
// is tested against.
package builtin

import (
	"fmt"

	"github.com/oisee/hdlsim/pkg/ir"
)

// Demo is a fully elaborated IR ready to hand to a scheduler.
type Demo struct {
	Name     string
	Top      string
	Registry *ir.Registry
	Root     *ir.Scope
}

// Names lists the built-in demos, in the order cmd/hdlsim's
// list-demos prints them.
func Names() []string {
	return []string{"dff", "adder", "sync", "case"}
}

// Build elaborates the named demo IR.
func Build(name string) (*Demo, error) {
	switch name {
	case "dff":
		return buildDff(), nil
	case "adder":
		return buildAdder(), nil
	case "sync":
		return buildSync(), nil
	case "case":
		return buildCase(), nil
	default:
		return nil, fmt.Errorf("unknown demo %q (want one of %v)", name, Names())
	}
}
