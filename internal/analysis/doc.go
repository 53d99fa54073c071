// Package analysis provides post-flight analysis tools.
//
// The package works on finished [dynamo.Result] sample sequences:
//
//   - [PhaseDurations]: time spent in each flight phase
//   - [Tsiolkovsky]: constant-pressure rocket-equation comparison curve
//   - [IsUnimodal]: shape check for sweep response curves
//   - [GeneratePortrait]: 2D plot of any two sample quantities
//
// # Rocket Equation Comparison
//
// The constant-pressure approximation assumes the initial exit speed holds
// for the whole burn and ignores drag and gravity, so it overestimates the
// simulated speed:
//
//	curve := analysis.Tsiolkovsky(res, params)
//	for _, pt := range curve {
//	    fmt.Println(pt.Time, pt.Speed)
//	}
package analysis
