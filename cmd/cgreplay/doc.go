// Package main hosts the cgreplay CLI entrypoint and command graph.
//
// The Cobra-based command tree reproduces the video pairs a study
// participant was shown, checks reproductions against logged responses,
// imports response exports into the local database, inspects and generates
// catalogs, and serves the same answers over HTTP. It centralizes
// configuration resolution, catalog loading with fallback reporting, and
// structured logging setup so subcommands can focus on output.
//
// Keep this package lean: new behavior belongs in the internal packages
// first and is surfaced here through commands or flags.
package main
