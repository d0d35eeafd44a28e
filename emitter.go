package riffle

// An Emitter passes a single output element of a transform step onward. Emitted
// elements become part of the receiving dataset in arrival order. An Emitter is
// only valid for the duration of the call it was supplied to.
type Emitter[T any] func(el T) error
