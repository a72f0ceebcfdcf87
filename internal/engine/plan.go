package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"pkgscan/internal/checks"
	"pkgscan/internal/feed"
	"pkgscan/internal/pipeline"
	"pkgscan/internal/source"
	"pkgscan/internal/transform"
)

// BadSink is a check that no source/transform combination can serve at its
// required scope and filter type. Bad sinks are reported, never silently
// dropped.
type BadSink struct {
	Check  checks.Check
	Reason string
}

// Planned is one assembled pipeline: a source plus the transform tree
// consuming its stream, with checks attached as runner leaves. Cost is the
// source cost plus the cost of every transform in the tree.
type Planned struct {
	Source source.Source
	Tree   pipeline.Stage
	Cost   int
}

// pipe is a candidate partial or complete assembly explored during search.
// Immutable once created; deduplicated by value via key().
type pipe struct {
	visited    map[feed.Type]struct{}
	src        source.Source
	transforms []transform.Transform
	cost       int
}

func (p pipe) key() string {
	types := make([]string, 0, len(p.visited))
	for t := range p.visited {
		types = append(types, string(t))
	}
	sort.Strings(types)
	ids := make([]string, 0, len(p.transforms))
	for _, t := range p.transforms {
		ids = append(ids, t.ID())
	}
	sort.Strings(ids)
	return p.src.ID() + "|" + strings.Join(types, ",") + "|" + strings.Join(ids, ",")
}

func (p pipe) grow(t transform.Transform) pipe {
	visited := make(map[feed.Type]struct{}, len(p.visited)+1)
	for ft := range p.visited {
		visited[ft] = struct{}{}
	}
	visited[t.To()] = struct{}{}
	transforms := make([]transform.Transform, len(p.transforms), len(p.transforms)+1)
	copy(transforms, p.transforms)
	return pipe{
		visited:    visited,
		src:        p.src,
		transforms: append(transforms, t),
		cost:       p.cost + t.Cost(),
	}
}

// filterOrder fixes the emission order of per-filter pipelines so plan
// output is deterministic.
var filterOrder = []feed.Filter{feed.NoFilter, feed.MaskFilter, feed.GitFilter}

// Plug assembles pipelines connecting sources through transforms to sinks.
//
// It prefers a single pipeline per filter type reaching every surviving
// sink feed type, even if more expensive than separate pipelines; when none
// exists it combines already-explored pipes. The combination step is an
// accepted heuristic: it only unions single-source pipes and keeps the
// cheapest union found, without proving global optimality.
//
// Cheapest-source grouping includes the filter type in both the lookup and
// the storage key, and reachability is tracked per (feed type, filter
// type), so a sink requiring an unproduced filter is classified bad up
// front instead of failing during assembly.
func Plug(sinks []checks.Check, transforms []transform.Transform, sources []source.Source, debug zerolog.Logger) ([]BadSink, []Planned, error) {
	type reachKey struct {
		ft     feed.Type
		filter feed.Filter
	}

	// Forward closure per source: every type its scope allows it to reach,
	// recording the best scope per (type, filter).
	bestScope := make(map[reachKey]feed.Scope)
	for _, src := range sources {
		for ft := range reachableTypes(src.Feed(), src.Scope(), transforms) {
			key := reachKey{ft: ft, filter: src.Filter()}
			if scope, ok := bestScope[key]; !ok || scope < src.Scope() {
				bestScope[key] = src.Scope()
			}
		}
	}

	// Throw out unreachable sinks.
	var goodSinks []checks.Check
	var badSinks []BadSink
	for _, sink := range sinks {
		spec := sink.Spec()
		filter := spec.Filter.Normalize()
		scope, ok := bestScope[reachKey{ft: spec.Feed, filter: filter}]
		switch {
		case !ok:
			badSinks = append(badSinks, BadSink{
				Check:  sink,
				Reason: fmt.Sprintf("no source reaches feed type %q with filter %q", spec.Feed, filter),
			})
		case scope < spec.Scope:
			badSinks = append(badSinks, BadSink{
				Check: sink,
				Reason: fmt.Sprintf("feed type %q only reachable at %s scope, check needs %s",
					spec.Feed, scope, spec.Scope),
			})
		default:
			goodSinks = append(goodSinks, sink)
		}
	}
	if len(goodSinks) == 0 {
		return badSinks, nil, nil
	}

	// Throw out all sources below the least required scope. This does not
	// verify that a discarded source was otherwise needed by some transform
	// chain; a coarse, sound-but-incomplete prune.
	lowestScope := goodSinks[0].Spec().Scope
	for _, sink := range goodSinks[1:] {
		if s := sink.Spec().Scope; s < lowestScope {
			lowestScope = s
		}
	}
	var usable []source.Source
	for _, src := range sources {
		if src.Scope() >= lowestScope {
			usable = append(usable, src)
		}
	}
	if len(usable) == 0 {
		for _, sink := range goodSinks {
			badSinks = append(badSinks, BadSink{
				Check:  sink,
				Reason: "no source survives scope pruning",
			})
		}
		return badSinks, nil, nil
	}

	sinkFeedTypes := make(map[feed.Type]struct{})
	sinkFilterTypes := make(map[feed.Filter]struct{})
	for _, sink := range goodSinks {
		sinkFeedTypes[sink.Spec().Feed] = struct{}{}
		sinkFilterTypes[sink.Spec().Filter.Normalize()] = struct{}{}
	}

	// Retain the cheapest source per (scope, feed type, filter type).
	type sourceKey struct {
		scope  feed.Scope
		ft     feed.Type
		filter feed.Filter
	}
	sourceMap := make(map[sourceKey]source.Source)
	var sourceOrder []sourceKey
	for _, src := range usable {
		key := sourceKey{scope: src.Scope(), ft: src.Feed(), filter: src.Filter()}
		current, ok := sourceMap[key]
		if !ok {
			sourceOrder = append(sourceOrder, key)
		}
		if !ok || current.Cost() > src.Cost() {
			sourceMap[key] = src
		}
	}

	// Single-pipeline search. The worklist is finite because visited only
	// grows and feed types are finite.
	var worklist []pipe
	for _, key := range sourceOrder {
		src := sourceMap[key]
		p := pipe{
			visited: map[feed.Type]struct{}{src.Feed(): {}},
			src:     src,
			cost:    src.Cost(),
		}
		worklist = append(worklist, p)
		debug.Debug().Str("source", src.ID()).Int("cost", p.cost).Msg("initial pipe")
	}

	seen := make(map[string]struct{})
	var explored []pipe
	bestByFilter := make(map[feed.Filter]pipe)
	requiredFilters := make(map[feed.Filter]struct{}, len(sinkFilterTypes))
	for f := range sinkFilterTypes {
		requiredFilters[f] = struct{}{}
	}

	for len(worklist) > 0 {
		p := worklist[0]
		worklist = worklist[1:]
		if _, ok := seen[p.key()]; ok {
			continue
		}
		seen[p.key()] = struct{}{}
		explored = append(explored, p)

		filter := p.src.Filter()
		if coversAll(p.visited, sinkFeedTypes) {
			if _, wanted := sinkFilterTypes[filter]; wanted {
				if best, ok := bestByFilter[filter]; !ok || p.cost < best.cost {
					bestByFilter[filter] = p
					debug.Debug().Str("source", p.src.ID()).Int("cost", p.cost).
						Str("filter", string(filter)).Msg("complete pipe")
				}
				delete(requiredFilters, filter)
			}
			// Already reaches everything; no point in growing further.
			continue
		}
		if len(requiredFilters) == 0 {
			if best, ok := bestByFilter[filter]; ok && best.cost <= p.cost {
				continue
			}
		}
		for _, t := range transforms {
			if t.Scope() > p.src.Scope() {
				continue
			}
			if _, ok := p.visited[t.From()]; !ok {
				continue
			}
			if _, ok := p.visited[t.To()]; ok {
				continue
			}
			grown := p.grow(t)
			worklist = append(worklist, grown)
			debug.Debug().Str("source", p.src.ID()).Str("transform", t.ID()).
				Int("cost", grown.cost).Msg("growing pipe")
		}
	}

	var pipesToRun []pipe
	for _, f := range filterOrder {
		if p, ok := bestByFilter[f]; ok {
			pipesToRun = append(pipesToRun, p)
		}
	}

	if len(pipesToRun) == 0 {
		// No single pipe drives everything; combine explored pipes.
		combined, err := combinePipes(explored, usable, sinkFeedTypes, sinkFilterTypes, debug)
		if err != nil {
			return badSinks, nil, err
		}
		pipesToRun = combined
	}

	// Pure sink assignment: pipelines claim sinks in emission order, each
	// sink exactly once. Tree building below only reads the map.
	sort.SliceStable(goodSinks, func(i, j int) bool {
		return goodSinks[i].Spec().Priority < goodSinks[j].Spec().Priority
	})
	type attachPoint struct {
		pipe int
		ft   feed.Type
	}
	attached := make(map[attachPoint][]checks.Check)
	pending := goodSinks
	for i, p := range pipesToRun {
		reach := reachableTypes(p.src.Feed(), p.src.Scope(), p.transforms)
		var remaining []checks.Check
		for _, sink := range pending {
			spec := sink.Spec()
			_, typeOK := reach[spec.Feed]
			if typeOK && spec.Filter.Normalize() == p.src.Filter() && spec.Scope <= p.src.Scope() {
				key := attachPoint{pipe: i, ft: spec.Feed}
				attached[key] = append(attached[key], sink)
			} else {
				remaining = append(remaining, sink)
			}
		}
		pending = remaining
	}
	if len(pending) > 0 {
		ids := make([]string, 0, len(pending))
		for _, sink := range pending {
			ids = append(ids, sink.ID())
		}
		return badSinks, nil, fmt.Errorf("no pipeline combination serves checks: %s", strings.Join(ids, ", "))
	}

	var builder func(pipeIdx int, p pipe, node feed.Type) pipeline.Stage
	builder = func(pipeIdx int, p pipe, node feed.Type) pipeline.Stage {
		var children []pipeline.Stage
		for _, t := range p.transforms {
			if t.From() != node || t.Scope() > p.src.Scope() {
				continue
			}
			// The search never grows a pipe into an already-visited type,
			// so this recursion cannot loop.
			if sub := builder(pipeIdx, p, t.To()); sub != nil {
				children = append(children, t.Wrap(sub))
			}
		}
		for _, sink := range attached[attachPoint{pipe: pipeIdx, ft: node}] {
			children = append(children, sink)
		}
		if len(children) == 0 {
			return nil
		}
		return pipeline.NewCheckRunner(children...)
	}

	var planned []Planned
	for i, p := range pipesToRun {
		if tree := builder(i, p, p.src.Feed()); tree != nil {
			planned = append(planned, Planned{Source: p.src, Tree: tree, Cost: p.cost})
		}
	}
	return badSinks, planned, nil
}

// combinePipes unions already-explored single-source pipes until the union
// covers every sink feed type and every sink filter type, keeping the
// cheapest combination found. It never re-derives transform chains inside
// the combination.
func combinePipes(explored []pipe, sources []source.Source, sinkFeedTypes map[feed.Type]struct{}, sinkFilterTypes map[feed.Filter]struct{}, debug zerolog.Logger) ([]pipe, error) {
	pipesBySource := make(map[string][]pipe)
	var sourceIDs []string
	for _, src := range sources {
		if _, ok := pipesBySource[src.ID()]; !ok {
			pipesBySource[src.ID()] = nil
			sourceIDs = append(sourceIDs, src.ID())
		}
	}
	for _, p := range explored {
		pipesBySource[p.src.ID()] = append(pipesBySource[p.src.ID()], p)
	}

	type combo struct {
		visited map[feed.Type]struct{}
		sources map[string]struct{}
		seq     []pipe
		cost    int
	}
	comboKey := func(c combo) string {
		keys := make([]string, 0, len(c.seq))
		for _, p := range c.seq {
			keys = append(keys, p.key())
		}
		sort.Strings(keys)
		return strings.Join(keys, ";")
	}

	var worklist []combo
	for _, p := range explored {
		worklist = append(worklist, combo{
			visited: p.visited,
			sources: map[string]struct{}{p.src.ID(): {}},
			seq:     []pipe{p},
			cost:    p.cost,
		})
	}

	seen := make(map[string]struct{})
	var best []pipe
	bestCost := -1
	for len(worklist) > 0 {
		c := worklist[0]
		worklist = worklist[1:]
		key := comboKey(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		filters := make(map[feed.Filter]struct{}, len(c.seq))
		for _, p := range c.seq {
			filters[p.src.Filter()] = struct{}{}
		}
		if coversAll(c.visited, sinkFeedTypes) && coversAllFilters(filters, sinkFilterTypes) {
			if bestCost < 0 || c.cost < bestCost {
				best = c.seq
				bestCost = c.cost
				debug.Debug().Int("cost", c.cost).Int("pipes", len(c.seq)).Msg("complete combination")
			}
			continue
		}
		if bestCost >= 0 && c.cost >= bestCost {
			continue
		}
		for _, srcID := range sourceIDs {
			if _, used := c.sources[srcID]; used {
				continue
			}
			for _, p := range pipesBySource[srcID] {
				visited := make(map[feed.Type]struct{}, len(c.visited)+len(p.visited))
				for ft := range c.visited {
					visited[ft] = struct{}{}
				}
				for ft := range p.visited {
					visited[ft] = struct{}{}
				}
				srcs := make(map[string]struct{}, len(c.sources)+1)
				for id := range c.sources {
					srcs[id] = struct{}{}
				}
				srcs[srcID] = struct{}{}
				seq := make([]pipe, len(c.seq), len(c.seq)+1)
				copy(seq, c.seq)
				worklist = append(worklist, combo{
					visited: visited,
					sources: srcs,
					seq:     append(seq, p),
					cost:    c.cost + p.cost,
				})
			}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("no pipeline combination covers all checks")
	}
	return best, nil
}

// reachableTypes computes the forward closure from a start type over
// transforms usable at the source's scope.
func reachableTypes(start feed.Type, srcScope feed.Scope, transforms []transform.Transform) map[feed.Type]struct{} {
	reachable := map[feed.Type]struct{}{start: {}}
	todo := []feed.Type{start}
	for len(todo) > 0 {
		ft := todo[0]
		todo = todo[1:]
		for _, t := range transforms {
			if t.From() != ft || t.Scope() > srcScope {
				continue
			}
			if _, ok := reachable[t.To()]; !ok {
				reachable[t.To()] = struct{}{}
				todo = append(todo, t.To())
			}
		}
	}
	return reachable
}

func coversAll(visited, wanted map[feed.Type]struct{}) bool {
	for ft := range wanted {
		if _, ok := visited[ft]; !ok {
			return false
		}
	}
	return true
}

func coversAllFilters(have, wanted map[feed.Filter]struct{}) bool {
	for f := range wanted {
		if _, ok := have[f]; !ok {
			return false
		}
	}
	return true
}
