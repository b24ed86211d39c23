package models

// MessageType discriminates host/editor protocol messages
type MessageType string

const (
	// Host -> editor
	MessageInit           MessageType = "init"
	MessageRequestContent MessageType = "requestContent"

	// Editor -> host
	MessageLiveUpdate MessageType = "liveUpdate"
	MessageChange     MessageType = "change"
)

// Message is the cross-frame payload. Value always serializes, the host
// checks that change.value is a string.
type Message struct {
	Type  MessageType `json:"type"`
	Value string      `json:"value"`
}

// IsHostMessage reports whether the message travels host -> editor.
func (m Message) IsHostMessage() bool {
	return m.Type == MessageInit || m.Type == MessageRequestContent
}

// NoticeType discriminates editor-local UI instructions
type NoticeType string

const (
	NoticeCounter    NoticeType = "counter"    // refresh the size counter
	NoticeAlert      NoticeType = "alert"      // blocking user alert
	NoticeSetContent NoticeType = "setContent" // replace editor content
)

// Notice is sent to the editor frame only; the host never sees it.
type Notice struct {
	Type   NoticeType    `json:"type"`
	Value  string        `json:"value,omitempty"`
	Status *LengthStatus `json:"status,omitempty"`
}

// EventKind tags entries of a session's outbound stream
type EventKind string

const (
	EventMessage EventKind = "message"
	EventNotice  EventKind = "notice"
)

// Event is one entry of a session's outbound stream.
type Event struct {
	Kind    EventKind `json:"kind"`
	Message *Message  `json:"message,omitempty"`
	Notice  *Notice   `json:"notice,omitempty"`
}

// EditorEventType enumerates lifecycle events reported by the editor frame
type EditorEventType string

const (
	EditorReady    EditorEventType = "ready"
	EditorEdit     EditorEventType = "edit"
	EditorPasteEnd EditorEventType = "pasteEnd"
)

// EditorEvent is posted by the editor frame. Value carries the serialized
// document for edit and pasteEnd.
type EditorEvent struct {
	Type  EditorEventType `json:"type"`
	Value string          `json:"value"`
}
