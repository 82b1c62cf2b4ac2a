package engine

// FileOp is a file-system request operation.
type FileOp string

const (
	ClearDirectory  FileOp = "ClearDirectory"
	ClearFile       FileOp = "ClearFile"
	CreateDirectory FileOp = "CreateDirectory"
	CreateFile      FileOp = "CreateFile"
	DeleteDirectory FileOp = "DeleteDirectory"
	DeleteFile      FileOp = "DeleteFile"
)

// ContentOp is a content-write request operation.
type ContentOp string

const (
	Write  ContentOp = "Write"
	Append ContentOp = "Append"
)

// Request is a pending side effect; paths are relative to the output root.
type Request interface {
	// Dispatch hands the request to the matching sink method.
	Dispatch(sink RequestSink) error
	// Target returns the relative path the request acts on.
	Target() string
}

// FileRequest creates, clears or deletes a file or directory.
type FileRequest struct {
	Op   FileOp
	Path string
}

func (r FileRequest) Dispatch(sink RequestSink) error { return sink.HandleFile(r) }
func (r FileRequest) Target() string { return r.Path }

// ContentRequest writes or appends text to a file.
type ContentRequest struct {
	Op      ContentOp
	Path    string
	Content string
}

func (r ContentRequest) Dispatch(sink RequestSink) error { return sink.HandleContent(r) }
func (r ContentRequest) Target() string { return r.Path }

// RequestSink consumes the requests a translation emits.
type RequestSink interface {
	HandleFile(FileRequest) error
	HandleContent(ContentRequest) error
}

// FailureCounter is implemented by sinks that absorb output errors instead
// of returning them. The engine adds the failures counted during a run to
// Result.OutputErrors.
type FailureCounter interface {
	Failures() int
}

func sinkFailures(sink RequestSink) int {
	if fc, ok := sink.(FailureCounter); ok {
		return fc.Failures()
	}
	return 0
}

// DiscardSink drops every request.
type DiscardSink struct{}

func (DiscardSink) HandleFile(FileRequest) error { return nil }
func (DiscardSink) HandleContent(ContentRequest) error { return nil }
