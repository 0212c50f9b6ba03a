package protocol

// Kind identifies a command verb. Parsing a line yields a value from this
// closed set so dispatch is an exhaustive switch rather than string
// comparison scattered across call sites.
type Kind int

const (
	KindUnknown Kind = iota
	KindSet
	KindGet
	KindList
	KindQuit
	KindAcquire
	KindRelease
	KindStatus
)

// Verbs as they appear on the wire.
const (
	VerbSet     = "SET"
	VerbGet     = "GET"
	VerbList    = "LIST"
	VerbQuit    = "QUIT"
	VerbAcquire = "ACQUIRE"
	VerbRelease = "RELEASE"
	VerbStatus  = "STATUS"
)

// Sentinel is the reserved task payload that signals graceful worker
// termination. It is always the last line a worker observes.
const Sentinel = "quit"

// Command is a parsed protocol line.
type Command struct {
	Kind Kind
	Verb string
	// Key holds the first argument (SET/GET key, RELEASE id).
	Key string
	// Value holds the remainder of a SET line.
	Value string
}

// IsSentinel reports whether line carries the termination sentinel.
func IsSentinel(line string) bool {
	return line == Sentinel
}

func kindOf(verb string) Kind {
	switch verb {
	case VerbSet:
		return KindSet
	case VerbGet:
		return KindGet
	case VerbList:
		return KindList
	case VerbQuit:
		return KindQuit
	case VerbAcquire:
		return KindAcquire
	case VerbRelease:
		return KindRelease
	case VerbStatus:
		return KindStatus
	}
	return KindUnknown
}
