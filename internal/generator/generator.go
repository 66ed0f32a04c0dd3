// Package generator synthesizes blog posts from fixed templates.
// Every function here is pure and deterministic.
package generator

import (
	"strings"
)

const maxKeywordsInSnippet = 3

// Input is everything the synthesizer needs to build a post.
type Input struct {
	Topic    string
	Tone     Tone
	Keywords []string
	Length   Length
	// Audience is optional; empty means no audience suffix.
	Audience string
}

// Output is a synthesized post.
type Output struct {
	Title   string
	Outline []string
	Content string
}

// Generate builds the title, outline and Markdown content for in.
func Generate(in Input) Output {
	outline := Outline(in.Topic, in.Length)

	return Output{
		Title:   Title(in.Topic, in.Tone),
		Outline: outline,
		Content: Content(outline, in),
	}
}

// Outline returns the section headings for topic. Short posts keep the
// first four base headings; long posts append a case study and resources.
func Outline(topic string, length Length) []string {
	base := []string{
		"Introduction",
		"Why " + topic + " Matters",
		"Key Principles of " + topic,
		"Practical Tips for " + topic,
		"Common Mistakes to Avoid",
		"Conclusion",
	}

	switch length {
	case LengthShort:
		return base[:4:4]
	case LengthLong:
		return append(base,
			"Case Study: "+topic+" in Action",
			"Resources & Next Steps",
		)
	case LengthMedium:
		return base
	default:
		return base
	}
}

// Title returns the post title for topic written in tone.
func Title(topic string, tone Tone) string {
	return tone.TitlePrefix() + " " + topic
}

// Paragraph returns the body text of the section named heading.
func Paragraph(heading string, in Input) string {
	var b strings.Builder

	b.WriteString(heading)
	b.WriteString(": ")
	b.WriteString(in.Tone.Style())
	b.WriteString(" overview of ")
	b.WriteString(in.Topic)
	if in.Audience != "" {
		b.WriteString(" for ")
		b.WriteString(in.Audience)
	}
	b.WriteString(". This section explores key ideas, practical insights, and examples. Keywords to focus on: ")
	b.WriteString(KeywordSnippet(in.Topic, in.Keywords))
	b.WriteString(".")

	return b.String()
}

// KeywordSnippet joins at most the first three keywords, or returns topic
// when there are none.
func KeywordSnippet(topic string, keywords []string) string {
	if len(keywords) == 0 {
		return topic
	}
	if len(keywords) > maxKeywordsInSnippet {
		keywords = keywords[:maxKeywordsInSnippet]
	}
	return strings.Join(keywords, ", ")
}

// Content renders one "## heading" block per outline entry, separated by
// a blank line.
func Content(outline []string, in Input) string {
	blocks := make([]string, 0, len(outline))
	for _, heading := range outline {
		blocks = append(blocks, "## "+heading+"\n\n"+Paragraph(heading, in)+"\n")
	}
	return strings.Join(blocks, "\n")
}
