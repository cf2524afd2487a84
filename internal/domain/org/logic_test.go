package org

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankComparisons(t *testing.T) {
	rows := []DepartmentComparison{
		{DepartmentID: 1, DepartmentName: "A", TotalEmployees: 10, AvgSalary: 50},
		{DepartmentID: 2, DepartmentName: "B", TotalEmployees: 20, AvgSalary: 80},
		{DepartmentID: 3, DepartmentName: "C", TotalEmployees: 5, AvgSalary: 80},
	}
	rankComparisons(rows)

	byID := map[int64]DepartmentComparison{}
	for _, r := range rows {
		byID[r.DepartmentID] = r
	}

	assert.Equal(t, 2, byID[1].RankBySize)
	assert.Equal(t, 1, byID[2].RankBySize)
	assert.Equal(t, 3, byID[3].RankBySize)

	assert.Equal(t, 3, byID[1].RankBySalary)
	assert.Equal(t, 1, byID[2].RankBySalary)
	assert.Equal(t, 1, byID[3].RankBySalary)

	// Output is ordered by department id.
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].DepartmentID)
	assert.Equal(t, int64(3), rows[2].DepartmentID)
}

func TestRankComparisonsTiesShareRank(t *testing.T) {
	rows := []DepartmentComparison{
		{DepartmentID: 7, TotalEmployees: 4, AvgSalary: 100},
		{DepartmentID: 8, TotalEmployees: 4, AvgSalary: 100},
		{DepartmentID: 9, TotalEmployees: 1, AvgSalary: 10},
	}
	rankComparisons(rows)

	assert.Equal(t, 1, rows[0].RankBySize)
	assert.Equal(t, 1, rows[1].RankBySize)
	assert.Equal(t, 3, rows[2].RankBySize)
	assert.Equal(t, 1, rows[0].RankBySalary)
	assert.Equal(t, 1, rows[1].RankBySalary)
	assert.Equal(t, 3, rows[2].RankBySalary)
}

func TestSummarize(t *testing.T) {
	assert.Nil(t, summarize(nil))

	rows := []DepartmentComparison{
		{DepartmentName: "Engineering", TotalEmployees: 20, AvgSalary: 50, UniquePositions: 3},
		{DepartmentName: "Sales", TotalEmployees: 10, AvgSalary: 80, UniquePositions: 5},
	}
	sum := summarize(rows)
	require.NotNil(t, sum)
	assert.Equal(t, "Engineering", sum.LargestDepartment)
	assert.Equal(t, "Sales", sum.HighestPaidDepartment)
	assert.Equal(t, "Sales", sum.MostDiversePositions)
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, pageSize, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, totalPages(tc.total, tc.pageSize), "total=%d pageSize=%d", tc.total, tc.pageSize)
	}
}
