// Package domain defines the blog generation request and the persisted post.
package domain

import (
	"strings"

	"github.com/jonesrussell/blog-generator/internal/generator"
)

// StatusGenerated is the status of every newly created post.
const StatusGenerated = "generated"

// GenerationRequest is the body of POST /api/generate.
type GenerationRequest struct {
	Topic    string   `json:"topic"`
	Tone     string   `json:"tone"`
	Keywords []string `json:"keywords"`
	Length   string   `json:"length"`
	Audience *string  `json:"audience"`
}

// Normalize returns a copy of r with whitespace trimmed and defaults applied:
// a blank tone becomes Professional, blank keywords are dropped, an invalid
// length becomes medium and a blank audience becomes absent.
func (r GenerationRequest) Normalize() GenerationRequest {
	out := GenerationRequest{
		Topic:    strings.TrimSpace(r.Topic),
		Tone:     strings.TrimSpace(r.Tone),
		Keywords: make([]string, 0, len(r.Keywords)),
		Length:   string(generator.ParseLength(strings.ToLower(strings.TrimSpace(r.Length)))),
	}

	if out.Tone == "" {
		out.Tone = string(generator.ToneProfessional)
	}

	for _, kw := range r.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out.Keywords = append(out.Keywords, kw)
		}
	}

	if r.Audience != nil {
		if aud := strings.TrimSpace(*r.Audience); aud != "" {
			out.Audience = &aud
		}
	}

	return out
}

// SynthesisInput converts a normalized request into generator input.
func (r GenerationRequest) SynthesisInput() generator.Input {
	in := generator.Input{
		Topic:    r.Topic,
		Tone:     generator.Tone(r.Tone),
		Keywords: r.Keywords,
		Length:   generator.ParseLength(r.Length),
	}
	if r.Audience != nil {
		in.Audience = *r.Audience
	}
	return in
}

// BlogPost is the persisted form of a generated article.
type BlogPost struct {
	Title    string   `json:"title"`
	Topic    string   `json:"topic"`
	Tone     string   `json:"tone"`
	Keywords []string `json:"keywords"`
	Outline  []string `json:"outline"`
	Content  string   `json:"content"`
	Length   string   `json:"length"`
	Audience *string  `json:"audience"`
	Status   string   `json:"status"`
}

// NewBlogPost builds a post from a normalized request and its synthesized output.
func NewBlogPost(req GenerationRequest, out generator.Output) BlogPost {
	return BlogPost{
		Title:    out.Title,
		Topic:    req.Topic,
		Tone:     req.Tone,
		Keywords: req.Keywords,
		Outline:  out.Outline,
		Content:  out.Content,
		Length:   req.Length,
		Audience: req.Audience,
		Status:   StatusGenerated,
	}
}

// Fields returns the post as a field map for a document store.
func (p BlogPost) Fields() map[string]any {
	var audience any
	if p.Audience != nil {
		audience = *p.Audience
	}

	return map[string]any{
		"title":    p.Title,
		"topic":    p.Topic,
		"tone":     p.Tone,
		"keywords": p.Keywords,
		"outline":  p.Outline,
		"content":  p.Content,
		"length":   p.Length,
		"audience": audience,
		"status":   p.Status,
	}
}
