package history

// ActionKind tags what kind of user-visible action produced a
// HistoryEntry, for display in an undo/redo menu ("Undo Draw", "Undo
// Move", ...).
type ActionKind uint8

const (
	ActionOther ActionKind = iota
	ActionDraw
	ActionMove
	ActionPaste
	ActionDelete
	ActionReorder
	ActionProperties
	ActionSpawn
)

func (k ActionKind) String() string {
	switch k {
	case ActionDraw:
		return "Draw"
	case ActionMove:
		return "Move"
	case ActionPaste:
		return "Paste"
	case ActionDelete:
		return "Delete"
	case ActionReorder:
		return "Reorder"
	case ActionProperties:
		return "Properties"
	case ActionSpawn:
		return "Spawn"
	default:
		return "Other"
	}
}
