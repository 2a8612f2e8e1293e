package format

// Package format analyzes raw stream catalogs returned by the extraction
// backend. It normalizes inconsistently-tagged descriptors into a sortable
// format list (pairing split DASH tracks into combined virtual formats)
// and maps abstract quality tokens onto ordered selector-expression
// strategies.
