// Package builder turns multi-view scene input into a core.MixedGraph, the
// matching default variable tables and a construction Report.
//
// The input is already in direction space: every region, line and relation
// is given by rays from the shared camera center. Feature extraction and
// calibration happen upstream; the builder only applies the construction
// policy:
//
//   - Regions with fewer than MinRegionContour contour rays are skipped.
//   - In-view region-region connections and region-line contacts weigh 1.
//   - In-view line relations weigh junctionWeight × JunctionScale.
//   - Cross-view overlaps below OverlapThreshold are skipped; admitted ones
//     weigh OverlapWeight and carry the four extreme contour rays of both
//     regions, measured in a frame around their summed centers.
//   - Cross-view line incidences weigh CrossIncidenceWeight.
//   - Relations that reference skipped or unknown elements are skipped.
//   - Relations with fewer samples than their type needs are skipped.
//
// Every skip is recorded in the Report; nothing is printed.
//
// Options (BuilderOption):
//
//	WithOverlapThreshold(t)      default DefaultOverlapThreshold
//	WithOverlapWeight(w)         default DefaultOverlapWeight
//	WithJunctionScale(s)         default DefaultJunctionScale
//	WithCrossIncidenceWeight(w)  default DefaultCrossIncidenceWeight
//
// Option constructors panic on meaningless values; BuildMixedGraph itself
// returns errors.
//
// BoxScene generates the synthetic interior of a box seen from N views with
// a known ground truth; tests, examples and the CLI run it through the pipeline.
package builder
