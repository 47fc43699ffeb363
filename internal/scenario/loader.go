package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/pkg/fileutil"
	"github.com/rohmanhakim/conditions/pkg/hashutil"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a scenario file.
func Load(path string) (Program, error) {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return Program{}, &ScenarioError{
			Message: err.Error(),
			Cause:   ErrCauseRead,
			Source:  path,
			Err:     err,
		}
	}
	return Parse(data, path)
}

// Parse decodes and validates scenario text. source only labels errors and
// call sites.
func Parse(data []byte, source string) (Program, error) {
	var prog Program
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&prog); err != nil {
		if errors.Is(err, io.EOF) {
			return Program{}, &ScenarioError{
				Message: "empty document",
				Cause:   ErrCauseInvalid,
				Source:  source,
				Err:     ErrNoUnits,
			}
		}
		return Program{}, &ScenarioError{
			Message: err.Error(),
			Cause:   ErrCauseSyntax,
			Source:  source,
			Err:     fmt.Errorf("%w: %w", ErrParse, err),
		}
	}
	prog.Source = source
	prog.Digest, _ = hashutil.HashBytes(data, hashutil.HashAlgoBLAKE3)

	if err := prog.validate(); err != nil {
		return Program{}, err
	}
	return prog, nil
}

func (p *Program) validate() error {
	if len(p.Units) == 0 {
		return p.invalid(0, "document has no units", ErrNoUnits)
	}
	for i := range p.Units {
		u := &p.Units[i]
		if strings.TrimSpace(u.Name) == "" {
			u.Name = fmt.Sprintf("unit-%d", i+1)
		}
		if err := p.validateSteps(u.Steps); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) validateSteps(steps []Step) error {
	for _, st := range steps {
		if err := p.validateStep(st); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) validateStep(st Step) error {
	kinds := st.Kinds()
	switch len(kinds) {
	case 0:
		return p.invalid(st.Line, "step has no action", ErrInvalidStep)
	case 1:
	default:
		return p.invalid(st.Line, fmt.Sprintf("step has several actions: %v", kinds), ErrInvalidStep)
	}

	switch kinds[0] {
	case StepMessage, StepWarning, StepError, StepInterrupt:
		spec := st.signal()
		if _, err := spec.class(baseClass(kinds[0])); err != nil {
			return p.invalid(st.Line, err.Error(), err)
		}
	case StepCatch:
		if err := p.validateHandlers(st.Line, st.Catch.Handlers); err != nil {
			return err
		}
		if err := p.validateSteps(st.Catch.Body); err != nil {
			return err
		}
		return p.validateSteps(st.Catch.Finally)
	case StepCalling:
		if err := p.validateHandlers(st.Line, st.Calling.Handlers); err != nil {
			return err
		}
		return p.validateSteps(st.Calling.Body)
	case StepTry:
		return p.validateSteps(st.Try.Body)
	case StepSuppress:
		if len(st.Suppress.Classes) == 0 {
			return p.invalid(st.Line, "suppress needs at least one class", ErrInvalidStep)
		}
		for _, name := range st.Suppress.Classes {
			if _, err := condition.ParseClass(name); err != nil {
				return p.invalid(st.Line, err.Error(), err)
			}
		}
		return p.validateSteps(st.Suppress.Body)
	case StepRestart:
		if strings.TrimSpace(st.Restart.Name) == "" {
			return p.invalid(st.Line, "restart needs a name", ErrInvalidStep)
		}
		if err := p.validateSteps(st.Restart.Body); err != nil {
			return err
		}
		return p.validateSteps(st.Restart.OnInvoke)
	case StepInvoke:
		if strings.TrimSpace(st.Invoke.Name) == "" {
			return p.invalid(st.Line, "invoke needs a restart name", ErrInvalidStep)
		}
	case StepCapture:
		return p.validateSteps(st.Capture.Body)
	}
	return nil
}

func (p *Program) validateHandlers(line int, handlers []HandlerSpec) error {
	if len(handlers) == 0 {
		return p.invalid(line, "scope needs at least one handler", ErrInvalidStep)
	}
	for _, h := range handlers {
		if _, err := condition.ParseClass(h.Class); err != nil {
			return p.invalid(line, err.Error(), err)
		}
		if err := p.validateSteps(h.Steps); err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) invalid(line int, msg string, err error) error {
	return &ScenarioError{
		Message: msg,
		Cause:   ErrCauseInvalid,
		Source:  p.Source,
		Line:    line,
		Err:     err,
	}
}

func (s Step) signal() *SignalSpec {
	switch {
	case s.Message != nil:
		return s.Message
	case s.Warning != nil:
		return s.Warning
	case s.Error != nil:
		return s.Error
	default:
		return s.Interrupt
	}
}

func baseClass(kind StepKind) condition.Class {
	switch kind {
	case StepMessage:
		return condition.Message
	case StepWarning:
		return condition.Warning
	case StepInterrupt:
		return condition.Interrupt
	default:
		return condition.Error
	}
}

// class resolves the spec's subtype path below base.
func (s *SignalSpec) class(base condition.Class) (condition.Class, error) {
	if s.Class == "" {
		return base, nil
	}
	cls := base
	for _, tag := range strings.Split(s.Class, "/") {
		if tag == "" {
			return condition.Class{}, fmt.Errorf("%w: empty subtype in %q", condition.ErrUnknownClass, s.Class)
		}
		cls = cls.Sub(tag)
	}
	return cls, nil
}
