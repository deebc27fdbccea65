package elmish

import (
	"fmt"
	"runtime/debug"
)

// catch runs f and converts a panic into an error carrying the recovered
// value and the stack at the point of failure. The loop uses it at every
// boundary where a user-supplied function may fail.
func catch(f func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok {
				err = fmt.Errorf("%w\n%s", e, debug.Stack())
				return
			}
			err = fmt.Errorf("panic: %v\n%s", v, debug.Stack())
		}
	}()
	f()
	return nil
}
