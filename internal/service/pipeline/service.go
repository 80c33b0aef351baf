package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/w-h-a/minutes/embedder"
	"github.com/w-h-a/minutes/splitter"
	"github.com/w-h-a/minutes/store"
	"github.com/w-h-a/minutes/summarizer"
)

// Service runs the content pipeline for one uploaded transcript: summarize,
// split, embed, persist. Each meeting is an independent unit of work; there
// is no cross-meeting ordering.
type Service struct {
	store      store.Store
	summarizer *summarizer.Summarizer
	splitter   *splitter.Splitter
	embedder   embedder.Embedder
}

func (s *Service) ProcessMeeting(ctx context.Context, teamId string, meetingId string) error {
	meeting, err := s.store.GetMeeting(ctx, teamId, meetingId)
	if err != nil {
		return fmt.Errorf("load meeting %s: %w", meetingId, err)
	}

	summary, err := s.summarizer.Summarize(ctx, meeting.Transcript, s.projectContext(ctx, teamId, meeting.ProjectId))
	if err != nil {
		return s.fail(ctx, meetingId, fmt.Errorf("summarize meeting %s: %w", meetingId, err))
	}

	chunks := s.splitter.Split(meeting.Transcript)

	texts := make([]string, len(chunks))
	truncated := 0
	for i, chunk := range chunks {
		texts[i] = chunk.Text
		if chunk.Truncated {
			truncated++
		}
	}

	if truncated > 0 {
		slog.WarnContext(ctx, "transcript chunks truncated", "meeting_id", meetingId, "truncated", truncated, "chunks", len(chunks))
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return s.fail(ctx, meetingId, fmt.Errorf("embed meeting %s: %w", meetingId, err))
	}

	vector := DocumentVector(vectors)
	if vector == nil {
		return s.fail(ctx, meetingId, fmt.Errorf("no embedding produced for meeting %s", meetingId))
	}

	if err := s.store.CompleteMeeting(ctx, meetingId, summary.Text, summary.Title, vector); err != nil {
		return s.fail(ctx, meetingId, fmt.Errorf("complete meeting %s: %w", meetingId, err))
	}

	slog.InfoContext(ctx, "meeting processed", "meeting_id", meetingId, "title", summary.Title, "chunks", len(chunks))

	return nil
}

// projectContext loads the owning project for the summarizer instruction.
// A missing project is not fatal; the summary just carries no project block.
func (s *Service) projectContext(ctx context.Context, teamId string, projectId string) *summarizer.Project {
	project, err := s.store.GetProject(ctx, teamId, projectId)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "failed to load project context", "project_id", projectId, "error", err)
		}
		return nil
	}

	// team profiles are not stored here; the id is the only team label
	return &summarizer.Project{
		Title:       project.Title,
		Description: project.Description,
		Team:        project.TeamId,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
	}
}

func (s *Service) fail(ctx context.Context, meetingId string, cause error) error {
	slog.ErrorContext(ctx, "meeting pipeline failed", "meeting_id", meetingId, "error", cause)

	if err := s.store.FailMeeting(ctx, meetingId); err != nil {
		slog.ErrorContext(ctx, "failed to mark meeting as failed", "meeting_id", meetingId, "error", err)
	}

	return cause
}

// DocumentVector is the document-embedding policy: the first chunk's vector
// stands in for the whole document. This undercounts long transcripts; it is
// kept for compatibility with stored embeddings. Replace here to switch to a
// pooling strategy without touching the splitter or the embedding client.
func DocumentVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil
	}
	return vectors[0]
}

func New(
	store store.Store,
	summarizer *summarizer.Summarizer,
	splitter *splitter.Splitter,
	embedder embedder.Embedder,
) *Service {
	if store == nil {
		panic("store is required")
	}

	if summarizer == nil {
		panic("summarizer is required")
	}

	if splitter == nil {
		panic("splitter is required")
	}

	if embedder == nil {
		panic("embedder is required")
	}

	return &Service{
		store:      store,
		summarizer: summarizer,
		splitter:   splitter,
		embedder:   embedder,
	}
}
