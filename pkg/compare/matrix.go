package compare

// Placeholder fills a cell whose product lacks the row's key.
const Placeholder = "---"

// Spec is one specification row of a column, in the author's order.
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Column is one product in the matrix.
type Column struct {
	Item
	Horsepower     string `json:"horsepower"`
	Inverter       bool   `json:"inverter"`
	Specifications []Spec `json:"-"`
}

func (c Column) lookup() map[string]string {
	m := make(map[string]string, len(c.Specifications))
	for _, sp := range c.Specifications {
		if _, ok := m[sp.Key]; !ok {
			m[sp.Key] = sp.Value
		}
	}
	return m
}

// Row is one specification key across every column.
type Row struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

type Matrix struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// BuildMatrix lays columns side by side. Rows are the union of every
// specification key: a column contributes its keys in its own order, and a
// key keeps the position of its first appearance.
func BuildMatrix(columns []Column) Matrix {
	var keys []string
	seen := map[string]bool{}
	cells := make([]map[string]string, len(columns))
	for i, col := range columns {
		cells[i] = col.lookup()
		for _, sp := range col.Specifications {
			if !seen[sp.Key] {
				seen[sp.Key] = true
				keys = append(keys, sp.Key)
			}
		}
	}

	rows := make([]Row, len(keys))
	for i, k := range keys {
		vals := make([]string, len(columns))
		for j := range columns {
			if v, ok := cells[j][k]; ok && v != "" {
				vals[j] = v
			} else {
				vals[j] = Placeholder
			}
		}
		rows[i] = Row{Key: k, Values: vals}
	}

	if columns == nil {
		columns = []Column{}
	}
	return Matrix{Columns: columns, Rows: rows}
}
