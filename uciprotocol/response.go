package uciprotocol

// ResponseType represents the classification of an engine output line.
type ResponseType int

const (
	// ResponseUnknown is any line the driver does not act on.
	ResponseUnknown ResponseType = iota
	// ResponseUCIOK completes the handshake.
	ResponseUCIOK
	// ResponseReadyOK answers a readiness probe.
	ResponseReadyOK
	// ResponseBestMove ends a search.
	ResponseBestMove
	// ResponseInfo carries intermediate search output.
	ResponseInfo
	// ResponseID identifies the engine during the handshake.
	ResponseID
	// ResponseOption advertises a configurable option during the handshake.
	ResponseOption
)

// String returns a human-readable type name.
func (t ResponseType) String() string {
	switch t {
	case ResponseUCIOK:
		return "uciok"
	case ResponseReadyOK:
		return "readyok"
	case ResponseBestMove:
		return "bestmove"
	case ResponseInfo:
		return "info"
	case ResponseID:
		return "id"
	case ResponseOption:
		return "option"
	default:
		return "unknown"
	}
}

// Response is one classified engine output line.
type Response struct {
	Type ResponseType
	Line string // The trimmed raw line

	// For ResponseBestMove
	Move   string
	Ponder string

	// For ResponseInfo
	Info InfoLine

	// For ResponseID: "name" or "author" and the remainder of the line.
	IDField string
	IDValue string

	// For ResponseOption
	Option OptionSpec
}

// OptionSpec describes an option advertised by the engine.
//
//	option name Skill Level type spin default 20 min 0 max 20
type OptionSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Default string   `json:"default,omitempty" yaml:"default,omitempty"`
	Min     string   `json:"min,omitempty" yaml:"min,omitempty"`
	Max     string   `json:"max,omitempty" yaml:"max,omitempty"`
	Vars    []string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Identity is what the engine told us about itself during the handshake.
type Identity struct {
	Name    string
	Author  string
	Options []OptionSpec
}

// Option returns the advertised option with the given name, if any.
func (id Identity) Option(name string) (OptionSpec, bool) {
	for _, o := range id.Options {
		if o.Name == name {
			return o, true
		}
	}
	return OptionSpec{}, false
}
