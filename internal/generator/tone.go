package generator

// Tone is the writing voice of a generated post.
type Tone string

// Recognized tones. Any other value is treated as ToneProfessional.
const (
	ToneProfessional Tone = "Professional"
	ToneFriendly     Tone = "Friendly"
	ToneTechnical    Tone = "Technical"
	TonePersuasive   Tone = "Persuasive"
)

// TitlePrefix returns the phrase placed before the topic in a title.
func (t Tone) TitlePrefix() string {
	switch t {
	case ToneFriendly:
		return "Getting Started with"
	case ToneTechnical:
		return "In-Depth Look at"
	case TonePersuasive:
		return "Why You Should Care About"
	case ToneProfessional:
		return "A Practical Guide to"
	default:
		return "A Practical Guide to"
	}
}

// Style returns the style phrase used in section paragraphs.
func (t Tone) Style() string {
	switch t {
	case ToneFriendly:
		return "Conversational and approachable"
	case ToneTechnical:
		return "Detailed and precise"
	case TonePersuasive:
		return "Benefit-oriented and motivating"
	case ToneProfessional:
		return "Clear and concise"
	default:
		return "Clear and concise"
	}
}

// Length controls how many sections a post has.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// ParseLength maps s to a Length. Unrecognized values become LengthMedium.
// Matching is case-sensitive; callers normalize case first.
func ParseLength(s string) Length {
	switch Length(s) {
	case LengthShort:
		return LengthShort
	case LengthLong:
		return LengthLong
	case LengthMedium:
		return LengthMedium
	default:
		return LengthMedium
	}
}
