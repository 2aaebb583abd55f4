package dao

// Parameter names understood by review stores.
const (
	ParamID         = "ID"
	ParamStatus     = "Status"
	ParamBatchJobID = "BatchJobID"
)

type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}

// Values returns the parameter value as a string slice.
func (p *Parameter) Values() []string {
	switch actual := p.Value.(type) {
	case string:
		return []string{actual}
	case []string:
		return actual
	}
	return nil
}
