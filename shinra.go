// Package shinra provides tools for curating the SHINRA 2019 Wikipedia
// structured-annotation dataset. It unpacks the distributed archives into a
// predictable directory layout, builds per-category CSV catalogs, and
// produces inspection reports that flag anomalous pages and annotations.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, toml/).
package shinra
