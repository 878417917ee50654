package monkey

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/bouk/monkey"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Error is a common error that patched function or method returned.
var Error = errors.New("monkey error")

// Panic is a common value that patched function or method panicked.
var Panic = "monkey panic"

// PatchGuard is a type alias about monkey.PatchGuard.
type PatchGuard = monkey.PatchGuard

// Patch is used to patch a function.
func Patch(target, replacement interface{}) *PatchGuard {
	return monkey.Patch(target, replacement)
}

// PatchInstanceMethod is used to patch an instance method, the receiver
// parameter in the replacement function can be declared as interface{},
// so unexported types can be patched from the outside.
func PatchInstanceMethod(target interface{}, method string, replacement interface{}) *PatchGuard {
	targetType := reflect.TypeOf(target)
	m, ok := targetType.MethodByName(method)
	if !ok {
		panic(fmt.Sprintf("monkey: failed to get method %q in type %s", method, targetType))
	}
	replacementValue := reflect.ValueOf(replacement)
	fn := reflect.MakeFunc(m.Type, func(args []reflect.Value) []reflect.Value {
		return replacementValue.Call(args)
	})
	return monkey.PatchInstanceMethod(targetType, method, fn.Interface())
}

// IsMonkeyError is used to check the error is the monkey error.
func IsMonkeyError(t testing.TB, err error) {
	require.Equal(t, Error, err)
}

// IsExistMonkeyError is used to check the error contains the monkey error.
func IsExistMonkeyError(t testing.TB, err error) {
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), Error.Error()), "error: %s", err)
}
