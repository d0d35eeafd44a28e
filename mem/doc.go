// Package mem provides the reference Engine: an eager, single-partition,
// in-process executor. Every derivation runs at the moment it is requested,
// so client function errors surface at the call which supplied the function.
// It trades all scalability for predictability, making it the baseline other
// engines are checked against.
package mem
