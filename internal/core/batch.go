package core

// Batch is the unit executed by one call into the target.
type Batch struct {
	Name     string
	Argument any
	// Size is the number of head operations the batch consumes.
	Size int
	// Merged is true when Argument is the concatenation of sequence arguments.
	Merged bool
}

// Walker visits queued operations from the head until visit returns false.
type Walker func(visit func(Operation) bool) int

// PlanBatch picks the batch starting at the head of the queue.
//
// A scalar head runs alone. A sequence head absorbs every directly following
// operation with the same name and a sequence argument.
func PlanBatch(walk Walker) (Batch, bool) {
	var (
		batch Batch
		args  []any
	)
	walk(func(op Operation) bool {
		if len(args) == 0 {
			batch.Name = op.Name
			args = append(args, op.Argument)
			return IsSequence(op.Argument)
		}
		if op.Name != batch.Name || !IsSequence(op.Argument) {
			return false
		}
		args = append(args, op.Argument)
		return true
	})

	switch {
	case len(args) == 0:
		return Batch{}, false
	case !IsSequence(args[0]):
		batch.Argument = args[0]
		batch.Size = 1
	case len(args) == 1:
		batch.Argument = args[0]
		batch.Size = 1
	default:
		batch.Argument = Concat(args...)
		batch.Size = len(args)
		batch.Merged = true
	}
	return batch, true
}
