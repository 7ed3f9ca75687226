// Package percentile ranks index leaves by size and reports the offenders.
//
// Items are sorted ascending by size (ties keep their input order) and
// dealt into percentile buckets: a running counter advances the bucket
// index every time it reaches N/100 items. Buckets 0..94 are dropped; every
// item left is reported with its offset from bucket 95, so a healthy index
// yields offsets 0..4 for the largest five percent of its leaves.
//
// When N is not a multiple of 100 the counter can run past bucket 99. The
// Overflow option decides what happens then: OverflowClamp folds those items
// into bucket 99, OverflowKeep reports them with offsets above 4.
//
// Leaf names carry a ".json" suffix on disk; the suffix is stripped before a
// name is reported, and two inputs that collide after stripping are rejected.
package percentile
