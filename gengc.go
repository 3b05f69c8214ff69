// ABOUTME: Main gengc package providing version information and package documentation
// ABOUTME: This is the root package for the generational garbage collector

// Package gengc provides a generational garbage-collection core: a young
// generation collected by scavenging, a tenured old generation and a large
// object space collected by mark-sweep, a write barrier with a remembered
// set for cross-generational references, and a coordinator that routes
// allocations and runs minor/major collections.
package gengc

// Version is the semantic version of the gengc library
const Version = "0.1.0-dev"
