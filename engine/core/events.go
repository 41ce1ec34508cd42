package core

// System internal event codes.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01
	// Keyboard key pressed. Key holds the key code.
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02
	// Keyboard key released. Key holds the key code.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03
	// The robot description changed on disk. Path holds the file.
	EVENT_CODE_DESCRIPTION_CHANGED SystemEventCode = 0x10
)

// Key code definitions
type KeyCode uint16

const (
	KEY_UNKNOWN   KeyCode = 0x00
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_R         KeyCode = 0x52
)

// Event is what the window and the watcher hand to the frame loop.
type Event struct {
	Code SystemEventCode
	Key  KeyCode
	Path string
}

func KeyPressed(key KeyCode) Event {
	return Event{Code: EVENT_CODE_KEY_PRESSED, Key: key}
}
