// Package metrics provides per-run flight statistics.
//
// Every metric implements [dynamo.Metric] and sees each recorded sample once,
// including the synthetic touchdown sample of planar flights.
package metrics
