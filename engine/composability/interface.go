package composability

import (
	"fmt"

	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/graph"
	"github.com/lucas874/machine-go/engine/label"
)

// eventLabel is the (command, role) pair an event type resolves to within a
// single protocol, used to detect label clashes across the family.
type eventLabel struct {
	cmd  label.Command
	role label.Role
}

func (l eventLabel) String() string { return fmt.Sprintf("%s@%s", l.cmd, l.role) }

// RolesOf returns the distinct roles appearing in g's edge labels.
func RolesOf(g *graph.ProtocolGraph) label.RoleSet {
	roles := make(label.RoleSet)
	for _, e := range g.Edges() {
		roles.Add(g.EdgeLabel(e).Role)
	}
	return roles
}

// InterfaceCompatible checks that, across the whole family of protocols, an
// event type always resolves to the same (command, role) pair: the label
// identified by its event type must be unique across the family. Protocols
// sharing no role are unaffected by each other's event types, but since
// shared-role event types are exactly the ones that matter for
// synchronization, checking global per-event-type agreement is equivalent
// and simpler.
func InterfaceCompatible(graphs []*graph.ProtocolGraph) *errs.Report {
	report := errs.NewReport()
	seen := make(map[label.EventType]eventLabel)
	for _, g := range graphs {
		for _, e := range g.Edges() {
			l := g.EdgeLabel(e)
			want := eventLabel{cmd: l.Cmd, role: l.Role}
			if have, ok := seen[l.EventType]; ok {
				if have != want {
					report.Add(&errs.SwarmErrorString{
						Message: fmt.Sprintf("event type %s appears as %s and as %s", l.EventType, have, want),
					})
				}
			} else {
				seen[l.EventType] = want
			}
		}
	}
	return report
}

// InterfaceRoles returns the roles shared by at least two protocols in the
// family — the roles a composition actually synchronizes on.
func InterfaceRoles(graphs []*graph.ProtocolGraph) label.RoleSet {
	counts := make(map[label.Role]int)
	for _, g := range graphs {
		for r := range RolesOf(g) {
			counts[r]++
		}
	}
	out := make(label.RoleSet)
	for r, c := range counts {
		if c > 1 {
			out.Add(r)
		}
	}
	return out
}

// ValidateInterfaceRole checks that role r actually appears in g, returning
// an InvalidInterfaceRole error otherwise.
func ValidateInterfaceRole(g *graph.ProtocolGraph, r label.Role) *errs.InvalidInterfaceRole {
	if RolesOf(g).Contains(r) {
		return nil
	}
	return &errs.InvalidInterfaceRole{Role: r}
}
