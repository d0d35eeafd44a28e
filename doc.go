// Package riffle contains the core components of Riffle, a library for expressing
// aggregations over lazy, partitioned collections. This root package defines the
// types which make up the collection contract and the engine contract, and is an
// excellent overview of Riffle's key concepts. Aggregations themselves live in the
// aggregate subpackage, and executors in mem and local.
package riffle
