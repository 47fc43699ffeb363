package condition

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// CallSite is the Go frame that signaled a condition.
type CallSite struct {
	Function string
	File     string
	Line     int
}

// Caller returns the call site skip frames above the caller of Caller.
func Caller(skip int) (CallSite, bool) {
	pc := make([]uintptr, 1)
	// skip runtime.Callers and Caller itself
	if runtime.Callers(skip+2, pc) == 0 {
		return CallSite{}, false
	}

	frame, _ := runtime.CallersFrames(pc).Next()
	if frame.Function == "" && frame.File == "" {
		return CallSite{}, false
	}
	return CallSite{
		Function: frame.Function,
		File:     frame.File,
		Line:     frame.Line,
	}, true
}

// ShortFunction strips the import path from the function name,
// "github.com/x/y/pkg.(*T).Run" becomes "pkg.(*T).Run".
func (cs CallSite) ShortFunction() string {
	if i := strings.LastIndex(cs.Function, "/"); i >= 0 {
		return cs.Function[i+1:]
	}
	return cs.Function
}

func (cs CallSite) String() string {
	fn := cs.ShortFunction()
	if fn == "" {
		fn = "<unknown function>"
	}
	if cs.File == "" {
		return fn
	}
	return fmt.Sprintf("%s (%s:%d)", fn, filepath.Base(cs.File), cs.Line)
}
