package org

import "sort"

// rankComparisons fills RankBySize and RankBySalary in place.
// Equal values share a rank (competition ranking: 1, 1, 3), and rows
// are returned ordered by department id so output is stable.
func rankComparisons(rows []DepartmentComparison) {
	assign := func(value func(DepartmentComparison) float64, set func(*DepartmentComparison, int)) {
		order := make([]int, len(rows))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			va, vb := value(rows[order[a]]), value(rows[order[b]])
			if va != vb {
				return va > vb
			}
			return rows[order[a]].DepartmentID < rows[order[b]].DepartmentID
		})
		rank := 0
		var prev float64
		for pos, idx := range order {
			v := value(rows[idx])
			if pos == 0 || v != prev {
				rank = pos + 1
				prev = v
			}
			set(&rows[idx], rank)
		}
	}

	assign(
		func(r DepartmentComparison) float64 { return float64(r.TotalEmployees) },
		func(r *DepartmentComparison, rank int) { r.RankBySize = rank },
	)
	assign(
		func(r DepartmentComparison) float64 { return r.AvgSalary },
		func(r *DepartmentComparison, rank int) { r.RankBySalary = rank },
	)

	sort.Slice(rows, func(a, b int) bool { return rows[a].DepartmentID < rows[b].DepartmentID })
}

// summarize names the biggest, best paid and most position-diverse
// departments in the comparison. Ties go to the lower department id.
func summarize(rows []DepartmentComparison) *ComparisonSummary {
	if len(rows) == 0 {
		return nil
	}
	largest, paid, diverse := rows[0], rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.TotalEmployees > largest.TotalEmployees {
			largest = r
		}
		if r.AvgSalary > paid.AvgSalary {
			paid = r
		}
		if r.UniquePositions > diverse.UniquePositions {
			diverse = r
		}
	}
	return &ComparisonSummary{
		LargestDepartment:     largest.DepartmentName,
		HighestPaidDepartment: paid.DepartmentName,
		MostDiversePositions:  diverse.DepartmentName,
	}
}

// totalPages is ceil(total/pageSize), zero when pageSize is not positive.
func totalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
