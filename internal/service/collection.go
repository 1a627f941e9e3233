package service

import "fmt"

// CollectionName derives the collection identity for an ingestion batch.
// Batches with more than one file share one collection per (user, context)
// pair; a single-file batch routes to a distinct "one_" collection. The
// same pair can therefore land in different physical collections across
// calls with different file counts. That is deliberate policy: external
// callers record the identity implied by their batch and present it
// unchanged at query time.
func CollectionName(userID, contextID string, fileCount int) string {
	if fileCount > 1 {
		return fmt.Sprintf("coll_%s_%s", userID, contextID)
	}
	return fmt.Sprintf("one_%s_%s", userID, contextID)
}
