// Package domain holds error values shared across the groundlink
// application layers. The wire-level and storage-level types live in their
// own packages (pkg/frame, pkg/series); this package only carries the
// conditions the public API reports.
package domain
