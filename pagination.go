package tabular

import (
	"fmt"
	"slices"
)

// Pagination returns the pagination plugin. It slices the current rows into
// Page and derives PageCount, PageOptions, CanPreviousPage and CanNextPage.
// Unless DisablePageResetOnDataChange is set it also resets PageIndex to 0
// whenever data, filters, grouping or sorting change.
func Pagination() Plugin {
	return Plugin{Name: "pagination", Stage: StagePagination, Apply: applyPagination}
}

func applyPagination(inst *Instance) (*Instance, error) {
	opts := inst.Options
	st := inst.State
	size := st.pageSize()
	rows := inst.Rows

	if opts.ManualPagination {
		inst.PageCount = opts.PageCount
		inst.Page = rows
	} else {
		inst.PageCount = (len(rows) + size - 1) / size
		start := min(max(st.PageIndex, 0)*size, len(rows))
		end := min(start+size, len(rows))
		inst.Page = rows[start:end]
	}

	inst.PageOptions = nil
	if inst.PageCount > 0 {
		inst.PageOptions = make([]int, inst.PageCount)
		for i := range inst.PageOptions {
			inst.PageOptions[i] = i
		}
	}
	inst.CanPreviousPage = st.PageIndex > 0
	inst.CanNextPage = inst.PageCount == -1 || st.PageIndex < inst.PageCount-1

	if !opts.DisablePageResetOnDataChange {
		inst.UseStateReducer(resetPageIndex)
	}
	return inst, nil
}

func resetPageIndex(old, next State, action Action) State {
	if action == ActionDataChange ||
		!slices.Equal(old.GroupBy, next.GroupBy) ||
		!filtersEqual(old.Filters, next.Filters) ||
		!slices.Equal(old.SortBy, next.SortBy) {
		next.PageIndex = 0
	}
	return next
}

// GotoPage moves to a page. Indexes outside [0, PageCount-1] are ignored.
func (inst *Instance) GotoPage(index int) error {
	if index < 0 || (inst.PageCount >= 0 && index > inst.PageCount-1) {
		return nil
	}
	return inst.update(func(old State) State {
		old.PageIndex = index
		return old
	}, ActionPageChange)
}

// NextPage moves one page forward unless already on the last page.
func (inst *Instance) NextPage() error {
	if !inst.CanNextPage {
		return nil
	}
	return inst.GotoPage(inst.State.PageIndex + 1)
}

// PreviousPage moves one page back unless already on the first page.
func (inst *Instance) PreviousPage() error {
	if !inst.CanPreviousPage {
		return nil
	}
	return inst.GotoPage(inst.State.PageIndex - 1)
}

// SetPageSize changes the page size and moves to the page that contains the
// row previously at the top of the current page.
func (inst *Instance) SetPageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrPageSize, size)
	}
	return inst.update(func(old State) State {
		top := max(old.PageIndex, 0) * old.pageSize()
		old.PageIndex = top / size
		old.PageSize = size
		return old
	}, ActionPageSizeChange)
}
