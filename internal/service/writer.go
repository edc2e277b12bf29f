package service

import (
	"context"
	"strings"

	"github.com/freefly-ai/inkflow/internal/ai"
	"github.com/freefly-ai/inkflow/internal/domain"
	"github.com/freefly-ai/inkflow/internal/telemetry"
)

// recapPrefixLen bounds how many runes of an unsummarized chapter go
// into the recap block.
const recapPrefixLen = 500

// recapChapters is how many preceding chapters feed the recap.
const recapChapters = 2

// WriterService drives narrative generation: streamed story segments
// with knowledge references and recap, chapter summaries, and idea
// brainstorms.
type WriterService struct {
	provider TextProvider
}

// NewWriterService creates a WriterService.
func NewWriterService(provider TextProvider) *WriterService {
	return &WriterService{provider: provider}
}

// GenerateSegmentInput holds the inputs for one segment generation.
type GenerateSegmentInput struct {
	Work            *domain.Work
	ChapterID       string
	Instruction     string
	References      []string
	TargetWordCount int
}

// GenerateSegment streams a story segment continuing the given chapter.
// Chunks reach sink in arrival order; the full text is also returned.
// The stream runs to completion or provider error.
func (s *WriterService) GenerateSegment(ctx context.Context, input GenerateSegmentInput, sink func(chunk string)) (string, error) {
	w := input.Work
	ctx, span := telemetry.StartSpan(ctx, "writer.generate_segment", telemetry.SpanAttributes{
		WorkID:    w.ID,
		ChapterID: input.ChapterID,
	})
	defer span.End()

	chapterIdx := -1
	for i := range w.Chapters {
		if w.Chapters[i].ID == input.ChapterID {
			chapterIdx = i
			break
		}
	}
	if chapterIdx < 0 {
		return "", domain.ErrChapterNotFound
	}

	prompt := ai.BuildSegmentPrompt(ai.SegmentParams{
		Title:           w.Title,
		Genre:           w.Genre,
		Description:     w.Description,
		ChapterTitle:    w.Chapters[chapterIdx].Title,
		Instruction:     input.Instruction,
		References:      input.References,
		PreviousRecaps:  s.recaps(w, chapterIdx),
		TargetWordCount: input.TargetWordCount,
	})

	text, err := s.provider.CompleteStream(ctx, ai.SystemInstruction, prompt, 0.8, sink)
	if err != nil {
		span.SetError(err)
		return text, err
	}
	return text, nil
}

// recaps returns digests of up to recapChapters chapters preceding the
// one at idx: the stored summary when present, else a bounded content
// prefix. Oldest first.
func (s *WriterService) recaps(w *domain.Work, idx int) []string {
	start := idx - recapChapters
	if start < 0 {
		start = 0
	}

	var recaps []string
	for i := start; i < idx; i++ {
		ch := w.Chapters[i]
		digest := ch.Summary
		if digest == "" {
			runes := []rune(ch.Content)
			if len(runes) > recapPrefixLen {
				runes = runes[:recapPrefixLen]
			}
			digest = string(runes)
		}
		if strings.TrimSpace(digest) == "" {
			continue
		}
		recaps = append(recaps, ch.Title+":"+digest)
	}
	return recaps
}

// Summarize produces a chapter summary for long-range context.
func (s *WriterService) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrEmptyChapter
	}
	return s.provider.Complete(ctx, "", ai.BuildSummaryPrompt(content), 0.3)
}

// GenerateIdeas brainstorms story directions for a topic.
func (s *WriterService) GenerateIdeas(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", domain.NewDomainError(domain.ErrCodeValidation, "idea topic is required")
	}
	return s.provider.Complete(ctx, ai.SystemInstruction, ai.BuildIdeasPrompt(topic), 0.9)
}
