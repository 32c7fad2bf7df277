package initialization

import "github.com/prosimlab/flowprop/model"

type varFlag struct {
	v        *model.Variable
	wasFixed bool
	value    float64
}

// Flags captures the fixed/free status and value of every state variable
// before initialization touched it, together with the consistency
// constraints that were deactivated. A Flags record is created by
// Initialize and consumed exactly once by Release.
type Flags struct {
	blocks      []StateBlock
	entries     []varFlag
	deactivated []*model.Constraint
	released    bool
}

func (f *Flags) recordVariable(v *model.Variable) {
	f.entries = append(f.entries, varFlag{
		v:        v,
		wasFixed: v.IsFixed(),
		value:    v.Value(),
	})
}
