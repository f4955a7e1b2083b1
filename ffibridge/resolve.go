package ffibridge

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/podhmo/daro/object"
)

// ResolutionError reports that no host method or constructor could be
// picked for a call. Unknown is set when the name does not exist at all.
type ResolutionError struct {
	Receiver string
	Method   string
	ArgTypes []string
	Unknown  bool
}

func (e *ResolutionError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown method %s.%s", e.Receiver, e.Method)
	}
	return fmt.Sprintf("no overload of %s.%s accepts (%s)", e.Receiver, e.Method, strings.Join(e.ArgTypes, ", "))
}

func argTypes(args []object.Object) []string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = object.TypeOf(a).Name()
	}
	return names
}

// Resolve picks the candidate with the lowest total casting loss for args.
// Candidates with an impossible parameter are skipped and ties go to the
// earliest candidate.
func Resolve(receiver, name string, candidates []reflect.Value, args []object.Object) (reflect.Value, int, error) {
	if len(candidates) == 0 {
		return reflect.Value{}, Impossible, &ResolutionError{Receiver: receiver, Method: name, Unknown: true}
	}
	best, bestLoss := -1, Impossible
	for i, c := range candidates {
		if l := CallLoss(c.Type(), args); l < bestLoss {
			best, bestLoss = i, l
		}
	}
	if best < 0 {
		return reflect.Value{}, Impossible, &ResolutionError{Receiver: receiver, Method: name, ArgTypes: argTypes(args)}
	}
	return candidates[best], bestLoss, nil
}
