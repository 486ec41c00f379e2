// Package cells provides a small standard library of cell implementations:
// numeric sources and arithmetic, pass through and buffering cells, and
// sinks for printing and collecting values. All of them register with a
// cell registry so persisted topologies can be rebuilt.
package cells
