// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

// gzipRatio is the assumed CSV-to-gzip compression ratio. The upload budget
// covers compressed bytes, so the raw target is the budget times this.
const gzipRatio = 3

// EstimateChunkRows returns how many rows of t fit in one upload part given
// a per-part budget of budgetKB compressed kilobytes. When the whole table
// fits the target, the full row count is returned (single chunk). The result
// is never 0 for a non-empty table.
func EstimateChunkRows(t *Table, budgetKB int) int {
	if budgetKB <= 0 {
		budgetKB = defaultChunkBudgetKB
	}
	return chunkRowsFor(t.NumRows(), t.sizeBytes()/1024, budgetKB)
}

// chunkRowsFor scales the row count down proportionally when the estimated
// size exceeds the raw target.
func chunkRowsFor(totalRows, sizeKB, budgetKB int) int {
	targetKB := budgetKB * gzipRatio
	if sizeKB <= targetKB {
		return totalRows
	}
	rows := totalRows * targetKB / sizeKB
	if rows < 1 {
		rows = 1
	}
	return rows
}

// rowRange is a contiguous 1-based inclusive row span. A range with
// end < start is empty.
type rowRange struct {
	start int
	end   int
}

func (r rowRange) rows() int {
	if r.end < r.start {
		return 0
	}
	return r.end - r.start + 1
}

// partitionRows splits [1, totalRows] into contiguous ranges of at most
// chunkRows rows, in order. When the rows left after a cut are fewer than
// chunkRows, the final range absorbs them instead of leaving a dangling
// near-empty range. Always returns at least one range; for an empty table
// that range is empty.
func partitionRows(totalRows, chunkRows int) []rowRange {
	if chunkRows < 1 {
		chunkRows = 1
	}
	if totalRows <= 0 {
		return []rowRange{{start: 1, end: 0}}
	}

	var ranges []rowRange
	start := 1
	for start <= totalRows {
		end := start + chunkRows - 1
		if end > totalRows {
			end = totalRows
		}
		// Upload the rest in one shot when the remainder would not fill
		// another chunk.
		if totalRows-end < chunkRows {
			end = totalRows
		}
		ranges = append(ranges, rowRange{start: start, end: end})
		start = end + 1
	}
	return ranges
}
