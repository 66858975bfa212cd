package workflow

// NoticeKind classifies a notice.
type NoticeKind string

const (
	NoticeProgress  NoticeKind = "progress"
	NoticeSucceeded NoticeKind = "succeeded"
	NoticePending   NoticeKind = "pending"
	NoticeFailed    NoticeKind = "failed"
	NoticeAbandoned NoticeKind = "abandoned"
)

// Notice is a message for the user. Messages are shown verbatim.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Notifier receives notices as the workflow runs.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notice)

// Notify calls f.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Notice) {})
