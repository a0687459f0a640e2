package result

// Publisher receives notifications about result lifecycle events. The
// default is a no-op; a real-time transport can be injected by the caller.
type Publisher interface {
	ScoresRecorded(session string, semester int, courseCode string, updated int)
	ResultsPublished(session string, semester int, updated int)
}

type nopPublisher struct{}

func (nopPublisher) ScoresRecorded(string, int, string, int) {}
func (nopPublisher) ResultsPublished(string, int, int)       {}

// NopPublisher returns the default, do-nothing Publisher.
func NopPublisher() Publisher { return nopPublisher{} }
