package core

import (
	"reflect"
	"time"

	"github.com/segmentio/ksuid"
)

// Operation is one deferred invocation waiting in the queue.
type Operation struct {
	ID         ksuid.KSUID
	Name       string
	Argument   any
	EnqueuedAt time.Time
}

// IsSequence reports whether arg takes part in batching. Any slice counts
// except byte slices, which are treated as opaque scalar blobs.
func IsSequence(arg any) bool {
	if arg == nil {
		return false
	}
	t := reflect.TypeOf(arg)
	return t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8
}

// Concat joins sequence arguments in order. When every argument has the same
// slice type the result has that type too, otherwise it is a []any holding
// the individual elements. Non-sequence arguments are skipped.
func Concat(args ...any) any {
	var (
		common reflect.Type
		mixed  bool
		total  int
	)
	for _, arg := range args {
		if !IsSequence(arg) {
			continue
		}
		t := reflect.TypeOf(arg)
		if common == nil {
			common = t
		} else if t != common {
			mixed = true
		}
		total += reflect.ValueOf(arg).Len()
	}
	if common == nil {
		return nil
	}

	if !mixed {
		out := reflect.MakeSlice(common, 0, total)
		for _, arg := range args {
			if IsSequence(arg) {
				out = reflect.AppendSlice(out, reflect.ValueOf(arg))
			}
		}
		return out.Interface()
	}

	out := make([]any, 0, total)
	for _, arg := range args {
		if !IsSequence(arg) {
			continue
		}
		v := reflect.ValueOf(arg)
		for i := 0; i < v.Len(); i++ {
			out = append(out, v.Index(i).Interface())
		}
	}
	return out
}
