package engine

import "github.com/rohmanhakim/conditions/internal/condition"

// Try runs body and turns an error into a returned TryError instead of an
// aborted unit, after reporting it to the diagnostic sink. Interrupts are
// not caught.
func Try[T any](e *Env, body func() T) (T, error) {
	return try(e, body, true)
}

// TrySilent is Try without the diagnostic report.
func TrySilent[T any](e *Env, body func() T) (T, error) {
	return try(e, body, false)
}

type tryResult[T any] struct {
	value T
	err   error
}

func try[T any](e *Env, body func() T, report bool) (T, error) {
	res := Catch(e, []CatchHandler[tryResult[T]]{
		On(condition.Error, func(c *condition.Condition) tryResult[T] {
			if report {
				e.sink.Emit(condition.KindError, formatReport("Error", c))
			}
			return tryResult[T]{err: &TryError{Condition: c}}
		}),
	}, func() tryResult[T] {
		return tryResult[T]{value: body()}
	})
	return res.value, res.err
}

// Suppress muffles every warning and message matching class for the extent
// of body. Errors matching class are not affected.
func Suppress[T any](e *Env, class condition.Class, body func() T) T {
	return WithCalling(e, []CallingHandler{
		OnCalling(class, e.Muffle),
	}, body)
}

func SuppressWarnings[T any](e *Env, body func() T) T {
	return Suppress(e, condition.Warning, body)
}

func SuppressMessages[T any](e *Env, body func() T) T {
	return Suppress(e, condition.Message, body)
}
