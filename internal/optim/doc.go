// Package optim compares and optimises rocket designs by running many
// independent flights.
//
// [GridSearch] runs every combination of design parameters concurrently and
// ranks them by a metric. [Sweep] runs one of the canned one-parameter plans
// ([WaterPlan], [PressurePlan], [AnglePlan]).
package optim
