package ingest

// Partition splits candidate records into rows to insert and rows whose bank
// reference is already stored. The existing set is fetched once per batch.
// Rows without a reference cannot be deduplicated and always insert.
func Partition(candidates []Record, existing map[string]struct{}) (toInsert, duplicates []Record) {
	for _, rec := range candidates {
		if rec.TransactionReference != "" {
			if _, ok := existing[rec.TransactionReference]; ok {
				duplicates = append(duplicates, rec)
				continue
			}
		}
		toInsert = append(toInsert, rec)
	}
	return toInsert, duplicates
}
