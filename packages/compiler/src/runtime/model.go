package runtime

// Model is a list of rows, the value of arrays and repeater models
type Model interface {
	RowCount() int
	RowData(row int) Value
	SetRowData(row int, v Value)
}

// IntModel is the model 0..n-1, used for `for i in n`
type IntModel int

// RowCount implements Model
func (m IntModel) RowCount() int {
	if m < 0 {
		return 0
	}
	return int(m)
}

// RowData implements Model
func (m IntModel) RowData(row int) Value {
	return float64(row)
}

// SetRowData implements Model. Integer models are read-only.
func (IntModel) SetRowData(int, Value) {}

// VecModel is a mutable list of values
type VecModel struct {
	rows []Value
}

// NewVecModel creates a model holding values
func NewVecModel(values ...Value) *VecModel {
	return &VecModel{rows: append([]Value(nil), values...)}
}

// RowCount implements Model
func (m *VecModel) RowCount() int {
	return len(m.rows)
}

// RowData implements Model. Out of range rows are nil.
func (m *VecModel) RowData(row int) Value {
	if row < 0 || row >= len(m.rows) {
		return nil
	}
	return m.rows[row]
}

// SetRowData implements Model. Out of range rows are ignored.
func (m *VecModel) SetRowData(row int, v Value) {
	if row < 0 || row >= len(m.rows) {
		return
	}
	m.rows[row] = v
}

// Push appends a row
func (m *VecModel) Push(v Value) {
	m.rows = append(m.rows, v)
}

// Remove deletes a row
func (m *VecModel) Remove(row int) {
	if row < 0 || row >= len(m.rows) {
		return
	}
	m.rows = append(m.rows[:row], m.rows[row+1:]...)
}

// Rows returns a copy of the rows
func (m *VecModel) Rows() []Value {
	return append([]Value(nil), m.rows...)
}

// ModelFromValue returns the model a repeater iterates over: numbers give an IntModel,
// booleans a model of 0 or 1 rows and nil an empty model
func ModelFromValue(v Value) Model {
	switch v := v.(type) {
	case Model:
		return v
	case float64:
		return IntModel(int(v))
	case bool:
		if v {
			return IntModel(1)
		}
	}
	return IntModel(0)
}

// ModelLength returns the row count of an array value
func ModelLength(v Value) int {
	return ModelFromValue(v).RowCount()
}
