// Package scorecap captures paginated score renderings from a web
// application behind authentication. It drives a persistent browser
// session to discover lazily rendered per-page vector resources,
// downloads and converts them into raster images and PDF fragments,
// and merges the fragments into one multi-page document.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/,
// goquery/, pdfcpu/).
package scorecap
