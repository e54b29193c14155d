// Package lists walks the categories of a Source and compiles every list
// file into the category map and the flattened reverse lookup index that the
// bundles expose.
//
// Index positions follow (category, slug) order, so two builds over the same
// content produce identical output.
package lists
