// Package audit attacks many digests and collects one report per digest.
//
// Each digest runs through a Pipeline of Steps: digest normalisation, a
// dictionary pass, a brute-force pass when the dictionary missed, and a
// strength classification of any recovered password. A BatchProcessor runs
// pipelines concurrently with errgroup and a fixed concurrency limit.
package audit
