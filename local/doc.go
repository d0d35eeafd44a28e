// Package local provides a lazy, partitioned, in-process Engine. Sources
// split into a configurable number of partitions, transforms run one fresh
// DoFn per partition on a bounded pool of goroutines, and grouping shuffles
// elements between partitions by hashed key bytes, optionally spilling
// oversized shuffle buffers to compressed files on disk. Combining runs both
// map-side and reduce-side, so a key whose values span partitions has its
// combiner invoked more than once. Nothing runs until Materialize.
package local
