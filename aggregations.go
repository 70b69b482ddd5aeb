package tabular

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cast"
)

// AggregateFunc reduces the leaf values of a group to the group row's value.
type AggregateFunc func(values []any) any

// DefaultAggregations returns a fresh copy of the built-in aggregations:
// sum, min, max, minMax, average, median, unique, uniqueCount and count.
// Numeric aggregations ignore values that do not convert to a number and
// return nil when none do.
func DefaultAggregations() map[string]AggregateFunc {
	return map[string]AggregateFunc{
		"sum":         aggregateSum,
		"min":         aggregateMin,
		"max":         aggregateMax,
		"minMax":      aggregateMinMax,
		"average":     aggregateAverage,
		"median":      aggregateMedian,
		"unique":      aggregateUnique,
		"uniqueCount": aggregateUniqueCount,
		"count":       aggregateCount,
	}
}

func aggregations(custom map[string]AggregateFunc) map[string]AggregateFunc {
	all := DefaultAggregations()
	maps.Copy(all, custom)
	return all
}

func numbers(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

func aggregateSum(values []any) any {
	var sum float64
	for _, f := range numbers(values) {
		sum += f
	}
	return sum
}

func aggregateMin(values []any) any {
	nums := numbers(values)
	if len(nums) == 0 {
		return nil
	}
	return slices.Min(nums)
}

func aggregateMax(values []any) any {
	nums := numbers(values)
	if len(nums) == 0 {
		return nil
	}
	return slices.Max(nums)
}

func aggregateMinMax(values []any) any {
	nums := numbers(values)
	if len(nums) == 0 {
		return nil
	}
	return fmt.Sprintf("%v..%v", slices.Min(nums), slices.Max(nums))
}

func aggregateAverage(values []any) any {
	nums := numbers(values)
	if len(nums) == 0 {
		return nil
	}
	var sum float64
	for _, f := range nums {
		sum += f
	}
	return sum / float64(len(nums))
}

func aggregateMedian(values []any) any {
	nums := numbers(values)
	if len(nums) == 0 {
		return nil
	}
	slices.Sort(nums)
	mid := len(nums) / 2
	if len(nums)%2 == 1 {
		return nums[mid]
	}
	return (nums[mid-1] + nums[mid]) / 2
}

func aggregateUnique(values []any) any {
	seen := make(map[string]bool, len(values))
	out := make([]any, 0, len(values))
	for _, v := range values {
		k := valueKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func aggregateUniqueCount(values []any) any {
	return len(aggregateUnique(values).([]any))
}

func aggregateCount(values []any) any {
	return len(values)
}
