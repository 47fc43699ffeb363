package scenario

import (
	"gopkg.in/yaml.v3"
)

// Program is a parsed scenario file.
type Program struct {
	// Source is the file the program was loaded from, empty for inline text.
	Source string `yaml:"-"`
	// Digest is the blake3 hash of the file content.
	Digest string `yaml:"-"`
	Units  []Unit `yaml:"units"`
}

// Unit is one top-level unit. Each unit runs with its own Env.
type Unit struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
	Line  int    `yaml:"-"`
}

// StepKind is the one action a step performs.
type StepKind string

const (
	StepPrint     StepKind = "print"
	StepReturn    StepKind = "return"
	StepMessage   StepKind = "message"
	StepWarning   StepKind = "warning"
	StepError     StepKind = "error"
	StepInterrupt StepKind = "interrupt"
	StepCatch     StepKind = "catch"
	StepCalling   StepKind = "calling"
	StepTry       StepKind = "try"
	StepSuppress  StepKind = "suppress"
	StepRestart   StepKind = "restart"
	StepInvoke    StepKind = "invoke"
	StepCapture   StepKind = "capture"
)

// Step holds exactly one of its action fields.
type Step struct {
	Print     *string       `yaml:"print"`
	Return    *string       `yaml:"return"`
	Message   *SignalSpec   `yaml:"message"`
	Warning   *SignalSpec   `yaml:"warning"`
	Error     *SignalSpec   `yaml:"error"`
	Interrupt *SignalSpec   `yaml:"interrupt"`
	Catch     *CatchSpec    `yaml:"catch"`
	Calling   *CallingSpec  `yaml:"calling"`
	Try       *TrySpec      `yaml:"try"`
	Suppress  *SuppressSpec `yaml:"suppress"`
	Restart   *RestartSpec  `yaml:"restart"`
	Invoke    *InvokeSpec   `yaml:"invoke"`
	Capture   *BodySpec     `yaml:"capture"`

	Line int `yaml:"-"`
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Step(p)
	s.Line = node.Line
	return nil
}

func (u *Unit) UnmarshalYAML(node *yaml.Node) error {
	type plain Unit
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*u = Unit(p)
	u.Line = node.Line
	return nil
}

// Kinds lists the action fields set on s, in declaration order.
func (s Step) Kinds() []StepKind {
	var kinds []StepKind
	add := func(set bool, k StepKind) {
		if set {
			kinds = append(kinds, k)
		}
	}
	add(s.Print != nil, StepPrint)
	add(s.Return != nil, StepReturn)
	add(s.Message != nil, StepMessage)
	add(s.Warning != nil, StepWarning)
	add(s.Error != nil, StepError)
	add(s.Interrupt != nil, StepInterrupt)
	add(s.Catch != nil, StepCatch)
	add(s.Calling != nil, StepCalling)
	add(s.Try != nil, StepTry)
	add(s.Suppress != nil, StepSuppress)
	add(s.Restart != nil, StepRestart)
	add(s.Invoke != nil, StepInvoke)
	add(s.Capture != nil, StepCapture)
	return kinds
}

// Kind returns the step's action. It is only meaningful on a validated step.
func (s Step) Kind() StepKind {
	kinds := s.Kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

/*
SignalSpec describes a condition to signal. A signal step takes either a
plain message

	warning: disk almost full

or a mapping with a subtype path and extra fields

	error:
	  message: no such file
	  class: io/notfound
	  extra: {path: /tmp/x}
*/
type SignalSpec struct {
	Message string         `yaml:"message"`
	Class   string         `yaml:"class"`
	Extra   map[string]any `yaml:"extra"`
}

func (s *SignalSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Message = node.Value
		return nil
	}
	type plain SignalSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = SignalSpec(p)
	return nil
}

// HandlerSpec is one handler of a catch or calling step. Class is a full
// class name such as "warning/deprecated".
type HandlerSpec struct {
	Class string `yaml:"class"`
	Steps []Step `yaml:"steps"`
	// Muffle invokes the muffle restart after Steps ran. Calling handlers only.
	Muffle bool `yaml:"muffle"`
}

type CatchSpec struct {
	Handlers []HandlerSpec `yaml:"handlers"`
	Body     []Step        `yaml:"body"`
	Finally  []Step        `yaml:"finally"`
}

type CallingSpec struct {
	Handlers []HandlerSpec `yaml:"handlers"`
	Body     []Step        `yaml:"body"`
}

// TrySpec yields Fallback when Body signals an error.
type TrySpec struct {
	Body     []Step `yaml:"body"`
	Silent   bool   `yaml:"silent"`
	Fallback string `yaml:"fallback"`
}

type SuppressSpec struct {
	Classes []string `yaml:"classes"`
	Body    []Step   `yaml:"body"`
}

type RestartSpec struct {
	Name     string `yaml:"name"`
	Body     []Step `yaml:"body"`
	OnInvoke []Step `yaml:"on_invoke"`
}

// InvokeSpec is a restart name, optionally with a value passed to the
// restart's on_invoke steps.
type InvokeSpec struct {
	Name  string  `yaml:"name"`
	Value *string `yaml:"value"`
}

func (s *InvokeSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Name = node.Value
		return nil
	}
	type plain InvokeSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = InvokeSpec(p)
	return nil
}

type BodySpec struct {
	Body []Step `yaml:"body"`
}
