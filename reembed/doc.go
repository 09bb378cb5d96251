// Package reembed provides functionality for regenerating the stored
// embedding vectors of existing content items with a new or updated
// embedding model.
//
// Vectors are rebuilt per item from its extraction records, with
// progress tracking and retry logic with exponential backoff.
package reembed
