package scenario

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/engine"
)

// Result is what one unit produced.
type Result struct {
	Name    string
	Value   string
	Outcome engine.Outcome
}

/*
Interpreter runs scenario units against one Env.

Every step is a safe point, so an interrupt delivered while a unit runs
fires before the next step starts. Text in print, return and invoke steps
may refer to {message} and {class} of the condition being handled, and to
{value} inside a restart's on_invoke steps.
*/
type Interpreter struct {
	env    *engine.Env
	source string
	unit   string
	frames []map[string]string
}

func NewInterpreter(env *engine.Env, source string) *Interpreter {
	return &Interpreter{
		env:    env,
		source: source,
	}
}

// Run executes u as a top-level unit.
func (in *Interpreter) Run(u Unit) Result {
	in.unit = u.Name
	in.frames = in.frames[:0]

	var value string
	out := in.env.RunTopLevel(func() {
		value, _ = in.block(u.Steps)
	})
	return Result{Name: u.Name, Value: value, Outcome: out}
}

// block runs steps in order. Its value is the value of the last step that
// produced one.
func (in *Interpreter) block(steps []Step) (string, bool) {
	var (
		value string
		has   bool
	)
	for _, st := range steps {
		in.env.SafePoint()
		if v, ok := in.step(st); ok {
			value, has = v, true
		}
	}
	in.env.SafePoint()
	return value, has
}

func (in *Interpreter) value(steps []Step) string {
	v, _ := in.block(steps)
	return v
}

func (in *Interpreter) step(st Step) (string, bool) {
	switch st.Kind() {
	case StepPrint:
		in.env.Printf("%s\n", in.expand(*st.Print))
	case StepReturn:
		return in.expand(*st.Return), true
	case StepMessage:
		in.env.SignalMessage(in.condition(st, condition.Message))
	case StepWarning:
		in.env.SignalWarning(in.condition(st, condition.Warning))
	case StepError:
		in.env.SignalError(in.condition(st, condition.Error))
	case StepInterrupt:
		in.env.Interrupt(in.condition(st, condition.Interrupt))
	case StepCatch:
		return in.catch(st.Catch), true
	case StepCalling:
		return in.calling(st.Calling), true
	case StepTry:
		return in.try(st.Try), true
	case StepSuppress:
		return in.suppress(st.Suppress), true
	case StepRestart:
		return in.restart(st.Restart), true
	case StepInvoke:
		in.invoke(st.Invoke)
	case StepCapture:
		out := in.env.Capture(func() { in.block(st.Capture.Body) })
		return strings.TrimSuffix(out, "\n"), true
	}
	return "", false
}

func (in *Interpreter) catch(spec *CatchSpec) string {
	handlers := make([]engine.CatchHandler[string], len(spec.Handlers))
	for i, h := range spec.Handlers {
		handlers[i] = engine.On(mustClass(h.Class), func(c *condition.Condition) string {
			return in.handle(c, h.Steps)
		})
	}

	var finally func()
	if len(spec.Finally) > 0 {
		finally = func() { in.block(spec.Finally) }
	}
	return engine.CatchFinally(in.env, handlers, func() string {
		return in.value(spec.Body)
	}, finally)
}

func (in *Interpreter) calling(spec *CallingSpec) string {
	handlers := make([]engine.CallingHandler, len(spec.Handlers))
	for i, h := range spec.Handlers {
		handlers[i] = engine.OnCalling(mustClass(h.Class), func(c *condition.Condition) {
			in.handle(c, h.Steps)
			if h.Muffle {
				in.env.Muffle(c)
			}
		})
	}
	return engine.WithCalling(in.env, handlers, func() string {
		return in.value(spec.Body)
	})
}

func (in *Interpreter) try(spec *TrySpec) string {
	body := func() string { return in.value(spec.Body) }

	var (
		v   string
		err error
	)
	if spec.Silent {
		v, err = engine.TrySilent(in.env, body)
	} else {
		v, err = engine.Try(in.env, body)
	}
	if err != nil {
		return spec.Fallback
	}
	return v
}

func (in *Interpreter) suppress(spec *SuppressSpec) string {
	body := func() string { return in.value(spec.Body) }
	for _, name := range slices.Backward(spec.Classes) {
		inner := body
		cls := mustClass(name)
		body = func() string { return engine.Suppress(in.env, cls, inner) }
	}
	return body()
}

func (in *Interpreter) restart(spec *RestartSpec) string {
	return engine.WithRestart(in.env, spec.Name, func() string {
		return in.value(spec.Body)
	}, func(args ...any) string {
		frame := map[string]string{"value": ""}
		if len(args) > 0 {
			frame["value"] = fmt.Sprint(args[0])
		}
		return in.with(frame, spec.OnInvoke)
	})
}

func (in *Interpreter) invoke(spec *InvokeSpec) {
	if spec.Value == nil {
		in.env.InvokeRestart(spec.Name)
		return
	}
	in.env.InvokeRestart(spec.Name, in.expand(*spec.Value))
}

func (in *Interpreter) handle(c *condition.Condition, steps []Step) string {
	return in.with(map[string]string{
		"message": c.Message(),
		"class":   c.Class().String(),
	}, steps)
}

func (in *Interpreter) with(frame map[string]string, steps []Step) string {
	in.frames = append(in.frames, frame)
	defer func() {
		in.frames = in.frames[:len(in.frames)-1]
	}()
	return in.value(steps)
}

// condition builds the condition a signal step raises. The step's line is
// its call site.
func (in *Interpreter) condition(st Step, base condition.Class) *condition.Condition {
	spec := st.signal()
	cls, err := spec.class(base)
	if err != nil {
		panic(err)
	}

	opts := []condition.Option{condition.WithExtras(spec.Extra)}
	if in.env.Config().CaptureCallSites() {
		opts = append(opts, condition.WithCallSite(condition.CallSite{
			Function: in.unit,
			File:     in.source,
			Line:     st.Line,
		}))
	}
	return condition.New(cls, in.expand(spec.Message), opts...)
}

// expand substitutes {name} references with the innermost binding.
func (in *Interpreter) expand(s string) string {
	if len(in.frames) == 0 || !strings.Contains(s, "{") {
		return s
	}
	var pairs []string
	seen := map[string]bool{}
	for _, frame := range slices.Backward(in.frames) {
		for k, v := range frame {
			if seen[k] {
				continue
			}
			seen[k] = true
			pairs = append(pairs, "{"+k+"}", v)
		}
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// mustClass parses a class name already checked by validation.
func mustClass(name string) condition.Class {
	cls, err := condition.ParseClass(name)
	if err != nil {
		panic(err)
	}
	return cls
}
