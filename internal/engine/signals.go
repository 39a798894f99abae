package engine

// Signal is a categorical feedback event. Turning it into sound, haptics or
// an on-screen flash is the caller's business.
type Signal string

const (
	SignalCapture Signal = "capture"
	SignalBuild   Signal = "build"
	SignalSuccess Signal = "success"
	SignalError   Signal = "error"
)

// Signaler receives feedback events
type Signaler interface {
	Signal(Signal)
}

// SignalFunc adapts a function to Signaler
type SignalFunc func(Signal)

func (f SignalFunc) Signal(s Signal) { f(s) }

type nopSignaler struct{}

func (nopSignaler) Signal(Signal) {}

// SignalRecorder keeps every signal it receives, in order
type SignalRecorder struct {
	Signals []Signal
}

func (r *SignalRecorder) Signal(s Signal) { r.Signals = append(r.Signals, s) }

// Last returns the most recent signal, or "" if none
func (r *SignalRecorder) Last() Signal {
	if len(r.Signals) == 0 {
		return ""
	}
	return r.Signals[len(r.Signals)-1]
}
