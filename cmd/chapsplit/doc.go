// Package main hosts the chapsplit CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, applies flag overrides,
// builds the logger from the -v/-q/-d switches and hands the work to the
// internal packages: splitter for splits, ffprobe for chapter listings and
// preflight for the doctor report. Keep commands thin; behaviour belongs in
// internal/.
package main
