package domain

// InputKind is the widget kind of a node input.
type InputKind string

// Input kinds.
const (
	InputImage    InputKind = "image"
	InputTextArea InputKind = "text"
	InputSlider   InputKind = "slider"
	InputSeed     InputKind = "seed"
	InputEnum     InputKind = "enum"
	InputBool     InputKind = "bool"
)

// EnumOption is a single selectable value of an enum input.
type EnumOption struct {
	Value string
	Label string
}

// InputSpec declares a node input.
type InputSpec struct {
	ID       int
	Key      string
	Label    string
	Kind     InputKind
	Optional bool
	Default  any
	Min      float64
	Max      float64
	Step     float64
	Group    string
	Options  []EnumOption
}

// OutputSpec declares a node output.
type OutputSpec struct {
	ID       int
	Label    string
	Kind     InputKind
	Channels int
	// Shape describes how the output size is derived from the inputs.
	Shape string
}

// NodeSchema is the UI metadata of a node kind.
type NodeSchema struct {
	ID          string
	Name        string
	Description string
	Category    string
	SubCategory string
	Icon        string
	Inputs      []InputSpec
	Outputs     []OutputSpec
}

// Input returns the input with the given key.
func (s NodeSchema) Input(key string) (InputSpec, bool) {
	for _, in := range s.Inputs {
		if in.Key == key {
			return in, true
		}
	}
	return InputSpec{}, false
}
