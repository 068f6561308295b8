// Package pipeline runs one tidy pass over a target directory: walk and
// classify, preview or apply the ledger, render the untouched tree, and
// print the statistics block.
//
// Types:
//   - RunStats (ledger totals, applied counts, conflicts, failures)
//
// Functions:
//   - Run(fsys, cfg, set, log, out) → RunStats, error
//     Walk errors are returned before anything is mutated. Per-item
//     executor failures are logged and counted in RunStats.Failed.
package pipeline
