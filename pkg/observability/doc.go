/*
Package observability provides tools for monitoring a running graph.

It includes a Prometheus collector that scrapes cell process counts,
busy state, accumulated processing time and edge queue lengths straight
from the topology, without instrumenting cell implementations.
*/
package observability
