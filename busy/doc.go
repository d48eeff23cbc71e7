// Package busy derives an "is something in flight" affordance from registry
// status events, for presentation layers that show a busy indicator.
package busy
