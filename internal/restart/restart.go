package restart

// Names of the restarts established by signaling a resumable condition.
const (
	MuffleWarning = "muffle-warning"
	MuffleMessage = "muffle-message"
)

// Token identifies one established restart.
type Token uint64

type Restart struct {
	Name  string
	Token Token
}

/*
Registry holds the restarts visible at the current point of execution.

Restarts are established immediately before the code they protect runs and
removed as soon as it returns, so the registry is strictly LIFO. Like the
handler stack it belongs to a single goroutine.
*/
type Registry struct {
	restarts []Restart
	next     Token
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Establish makes a restart named name visible and returns its token.
func (r *Registry) Establish(name string) Token {
	r.next++
	r.restarts = append(r.restarts, Restart{Name: name, Token: r.next})
	return r.next
}

// Remove drops tok and everything established after it.
func (r *Registry) Remove(tok Token) {
	for i := len(r.restarts) - 1; i >= 0; i-- {
		if r.restarts[i].Token == tok {
			clear(r.restarts[i:])
			r.restarts = r.restarts[:i]
			return
		}
	}
}

// Find returns the innermost restart named name.
func (r *Registry) Find(name string) (Restart, bool) {
	for i := len(r.restarts) - 1; i >= 0; i-- {
		if r.restarts[i].Name == name {
			return r.restarts[i], true
		}
	}
	return Restart{}, false
}

// Names lists visible restarts, innermost first.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.restarts))
	for i := len(r.restarts) - 1; i >= 0; i-- {
		names = append(names, r.restarts[i].Name)
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.restarts)
}
