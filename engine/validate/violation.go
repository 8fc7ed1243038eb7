package validate

// Kind names one rule an utterance can break.
type Kind string

const (
	FormatViolation        Kind = "FormatViolation"
	ActionUnknown          Kind = "ActionUnknown"
	RollOutOfRange         Kind = "RollOutOfRange"
	OccupiedOrBlocked      Kind = "OccupiedOrBlocked"
	TargetPositionMismatch Kind = "TargetPositionMismatch"
	InvalidSelfTarget      Kind = "InvalidSelfTarget"
	MoveExceedsStamina     Kind = "MoveExceedsStamina"
	OutOfSpellSlots        Kind = "OutOfSpellSlots"
	TargetOutOfRange       Kind = "TargetOutOfRange"
	OutOfPotions           Kind = "OutOfPotions"
	InvalidRevivifyTarget  Kind = "InvalidRevivifyTarget"
	PotionMisuse           Kind = "PotionMisuse"
	RoundHandshakeMismatch Kind = "RoundHandshakeMismatch"
)

// Transcript words for validation outcomes.
const (
	ContentInvalidFormat = "invalid format"
	ContentInvalidMove   = "invalid move"
	ContentInvalidTarget = "invalid target"
	ContentOutOfSlots    = "out of spell slots"
)

// EventContent returns the transcript word recorded for a violation of k.
func (k Kind) EventContent() string {
	switch k {
	case FormatViolation, RoundHandshakeMismatch:
		return ContentInvalidFormat
	case TargetPositionMismatch, InvalidSelfTarget, TargetOutOfRange,
		InvalidRevivifyTarget, PotionMisuse:
		return ContentInvalidTarget
	case OutOfSpellSlots:
		return ContentOutOfSlots
	default:
		return ContentInvalidMove
	}
}

// IsFormat reports whether k is a shape problem rather than a game-rule one.
func (k Kind) IsFormat() bool {
	return k == FormatViolation || k == RoundHandshakeMismatch
}

// Violation is a rejected utterance. Message is the corrective text sent
// back to the participant on retry.
type Violation struct {
	Kind    Kind
	Message string
}

func (v *Violation) Error() string {
	return string(v.Kind) + ": " + v.Message
}

func violation(k Kind, msg string) *Violation {
	return &Violation{Kind: k, Message: msg}
}
