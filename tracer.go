package qcgc

// Tracer is the mutator-supplied capability that enumerates an object's
// outgoing references (spec.md §6). It must be deterministic and must
// not mutate collector state beyond calling visit.
type Tracer interface {
	Trace(obj Object, visit func(ref Object))
}

// TracerFunc adapts a plain function to the Tracer interface.
type TracerFunc func(obj Object, visit func(ref Object))

func (f TracerFunc) Trace(obj Object, visit func(ref Object)) { f(obj, visit) }
