package tabular

import "iter"

// All yields the row and then every descendant in pre-order.
func (r *Row) All() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		walkRows([]*Row{r}, yield)
	}
}

// All yields the current rows and their sub rows in pre-order, ignoring
// expansion.
func (inst *Instance) All() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		walkRows(inst.Rows, yield)
	}
}

// AllColumns yields every column of the column tree in pre-order.
func (inst *Instance) AllColumns() iter.Seq[*Column] {
	return func(yield func(*Column) bool) {
		walkColumns(inst.Columns, yield)
	}
}

func walkRows(rows []*Row, yield func(*Row) bool) bool {
	for _, r := range rows {
		if !yield(r) || !walkRows(r.SubRows, yield) {
			return false
		}
	}
	return true
}

func walkColumns(cols []*Column, yield func(*Column) bool) bool {
	for _, c := range cols {
		if !yield(c) || !walkColumns(c.Columns, yield) {
			return false
		}
	}
	return true
}
