package domain_test

import (
	"testing"

	"github.com/jonesrussell/blog-generator/internal/domain"
	"github.com/jonesrussell/blog-generator/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   domain.GenerationRequest
		want domain.GenerationRequest
	}{
		{
			name: "defaults",
			in:   domain.GenerationRequest{Topic: "  Go  "},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Professional", Keywords: []string{}, Length: "medium"},
		},
		{
			name: "keywords trimmed and blanks dropped",
			in:   domain.GenerationRequest{Topic: "Go", Tone: "Friendly", Keywords: []string{" a ", "", "  ", "b"}},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Friendly", Keywords: []string{"a", "b"}, Length: "medium"},
		},
		{
			name: "length case-insensitive",
			in:   domain.GenerationRequest{Topic: "Go", Length: " SHORT "},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Professional", Keywords: []string{}, Length: "short"},
		},
		{
			name: "invalid length falls back",
			in:   domain.GenerationRequest{Topic: "Go", Length: "gigantic"},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Professional", Keywords: []string{}, Length: "medium"},
		},
		{
			name: "blank tone and audience",
			in:   domain.GenerationRequest{Topic: "Go", Tone: "   ", Audience: strPtr("  ")},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Professional", Keywords: []string{}, Length: "medium"},
		},
		{
			name: "audience trimmed",
			in:   domain.GenerationRequest{Topic: "Go", Audience: strPtr(" devs ")},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Professional", Keywords: []string{}, Length: "medium", Audience: strPtr("devs")},
		},
		{
			name: "unknown tone kept verbatim",
			in:   domain.GenerationRequest{Topic: "Go", Tone: "Sarcastic"},
			want: domain.GenerationRequest{Topic: "Go", Tone: "Sarcastic", Keywords: []string{}, Length: "medium"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := domain.GenerationRequest{Topic: " Go ", Keywords: []string{" a "}}
	_ = in.Normalize()

	assert.Equal(t, " Go ", in.Topic)
	assert.Equal(t, []string{" a "}, in.Keywords)
}

func TestNewBlogPost(t *testing.T) {
	t.Parallel()

	req := domain.GenerationRequest{Topic: "Go", Tone: "Friendly", Length: "short", Audience: strPtr("students")}.Normalize()
	out := generator.Generate(req.SynthesisInput())

	post := domain.NewBlogPost(req, out)

	assert.Equal(t, domain.StatusGenerated, post.Status)
	assert.Equal(t, "Getting Started with Go", post.Title)
	assert.Len(t, post.Outline, 4)
	assert.Contains(t, post.Content, "overview of Go for students.")

	fields := post.Fields()
	require.Contains(t, fields, "audience")
	assert.Equal(t, "students", fields["audience"])
	assert.Equal(t, "generated", fields["status"])
}

func TestFields_AbsentAudienceIsNil(t *testing.T) {
	t.Parallel()

	post := domain.BlogPost{Title: "t"}

	fields := post.Fields()
	assert.Nil(t, fields["audience"])
}
