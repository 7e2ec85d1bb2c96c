package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	ls "github.com/db47h/logicsim"
)

// graph is the component dependency graph: an edge runs from the owner of
// each driver of a net to the owner of each reader of the same net.
type graph struct {
	comps []*ls.Component
	succ  [][]int
}

type edge [2]int

func newGraph(comps []*ls.Component, nets []*ls.Net) *graph {
	g := &graph{comps: comps}
	idx := make(map[ls.ID]int, len(g.comps))
	for i, cp := range g.comps {
		idx[cp.ID] = i
	}
	g.succ = make([][]int, len(g.comps))
	seen := make(map[edge]bool)
	for _, n := range nets {
		for _, d := range n.Drivers() {
			u := idx[d.Owner]
			for _, r := range n.Readers() {
				v := idx[r.Owner]
				if e := (edge{u, v}); !seen[e] {
					seen[e] = true
					g.succ[u] = append(g.succ[u], v)
				}
			}
		}
	}
	for _, s := range g.succ {
		sort.Ints(s)
	}
	return g
}

func (g *graph) names(path []int) string {
	s := make([]string, len(path))
	for i, n := range path {
		s[i] = string(g.comps[n].ID)
	}
	return strings.Join(s, " -> ")
}

func (g *graph) ids(path []int) []ls.ID {
	ids := make([]ls.ID, len(path))
	for i, n := range path {
		ids[i] = g.comps[n].ID
	}
	return ids
}

const (
	white = iota
	grey
	black
)

// cycles runs a depth first search and reports every back edge as a cycle.
// It returns the set of back edges.
//
func (g *graph) cycles(r *Report) map[edge]bool {
	back := make(map[edge]bool)
	color := make([]int, len(g.comps))
	var stack []int
	var visit func(u int)
	visit = func(u int) {
		color[u] = grey
		stack = append(stack, u)
		for _, v := range g.succ[u] {
			switch color[v] {
			case white:
				visit(v)
			case grey:
				back[edge{u, v}] = true
				i := len(stack) - 1
				for stack[i] != v {
					i--
				}
				loop := append(append([]int(nil), stack[i:]...), v)
				r.add(Finding{Kind: CycleDetected, Severity: Warning,
					Message:    "feedback loop: " + g.names(loop),
					Components: g.ids(stack[i:])})
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = black
	}
	for u := range g.comps {
		if color[u] == white {
			visit(u)
		}
	}
	return back
}

// timing computes the longest source to sink path over the graph without its
// back edges.
//
func (g *graph) timing(opts *Options, back map[edge]bool) Timing {
	n := len(g.comps)
	indeg := make([]int, n)
	for u, s := range g.succ {
		for _, v := range s {
			if !back[edge{u, v}] {
				indeg[v]++
			}
		}
	}
	order := make([]int, 0, n)
	for u := range g.comps {
		if indeg[u] == 0 {
			order = append(order, u)
		}
	}
	for i := 0; i < len(order); i++ {
		u := order[i]
		for _, v := range g.succ[u] {
			if back[edge{u, v}] {
				continue
			}
			if indeg[v]--; indeg[v] == 0 {
				order = append(order, v)
			}
		}
	}

	best := make([]float64, n)
	prev := make([]int, n)
	paths := make([]int, n)
	for i := range best {
		best[i] = math.Inf(-1)
		prev[i] = -1
	}
	for _, u := range order {
		if k := g.comps[u].Kind; k == ls.Switch || k == ls.Clock {
			best[u] = opts.delay(g.comps[u])
			paths[u] = 1
		}
		if paths[u] == 0 {
			continue
		}
		for _, v := range g.succ[u] {
			if back[edge{u, v}] {
				continue
			}
			paths[v] += paths[u]
			if d := best[u] + opts.delay(g.comps[v]); d > best[v] {
				best[v] = d
				prev[v] = u
			}
		}
	}

	var t Timing
	end := -1
	for u, cp := range g.comps {
		if cp.Kind != ls.Led || paths[u] == 0 {
			continue
		}
		t.TotalPaths += paths[u]
		if end < 0 || best[u] > best[end] {
			end = u
		}
	}
	if end < 0 {
		return t
	}
	t.MaxDelay = best[end]
	if t.MaxDelay > 0 {
		t.MaxFrequency = 1000 / t.MaxDelay
	}
	var path []int
	for u := end; u >= 0; u = prev[u] {
		path = append(path, u)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	t.CriticalPath = g.ids(path)
	return t
}

func power(c *ls.Circuit, opts *Options) Power {
	var p Power
	for _, cp := range c.Components() {
		base := opts.power(cp)
		p.Static += base * opts.StaticFactor
		if cp.Level {
			p.Dynamic += base
		}
		p.ComponentCount++
	}
	p.Total = p.Static + p.Dynamic
	return p
}

func suggest(c *ls.Circuit, g *graph, netOf map[ls.PinRef]*ls.Net, r *Report) {
	for u, cp := range g.comps {
		if cp.Kind != ls.Not && cp.Kind != ls.Nand {
			continue
		}
		for _, v := range g.succ[u] {
			if v == u || g.comps[v].Kind != cp.Kind {
				continue
			}
			f := Finding{Severity: Suggestion, Components: g.ids([]int{u, v})}
			if cp.Kind == ls.Not {
				f.Kind = DoubleInverter
				f.Message = fmt.Sprintf("double inversion %s: both NOT gates can be removed", g.names([]int{u, v}))
			} else {
				f.Kind = SimplifiableGate
				f.Message = fmt.Sprintf("NAND chain %s can be simplified (De Morgan)", g.names([]int{u, v}))
			}
			r.add(f)
		}
	}
	for _, cp := range c.Components() {
		used := false
		for _, p := range cp.Pins {
			if netOf[p.Ref()] != nil {
				used = true
				break
			}
		}
		if !used {
			r.add(Finding{Kind: UnusedComponent, Severity: Suggestion,
				Message:    fmt.Sprintf("%s %s is not connected to anything", cp.Kind, cp.ID),
				Components: []ls.ID{cp.ID}})
		}
	}
}
