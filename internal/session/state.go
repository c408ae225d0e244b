package session

// State is the per-placeholder position in the generation state machine.
// The forward path is Idle, PromptPending, PromptReady, ImagesPending,
// ImagesReady, Selected; edits bounce between ImagesReady and EditPending.
// Error is terminal for irrecoverable prompt failures.
type State int

const (
	StateIdle State = iota
	StatePromptPending
	StatePromptReady
	StateImagesPending
	StateImagesReady
	StateEditPending
	StateSelected
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePromptPending:
		return "prompt_pending"
	case StatePromptReady:
		return "prompt_ready"
	case StateImagesPending:
		return "images_pending"
	case StateImagesReady:
		return "images_ready"
	case StateEditPending:
		return "edit_pending"
	case StateSelected:
		return "selected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
