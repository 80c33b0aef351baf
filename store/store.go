package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("record not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

type Project struct {
	Id          string
	TeamId      string
	Title       string
	Description string
	StartDate   string
	EndDate     string
	CreatedAt   time.Time
}

type Meeting struct {
	Id         string
	ProjectId  string
	Title      string
	Transcript string
	Summary    string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Store interface {
	EnsureSchema(ctx context.Context) error

	CreateProject(ctx context.Context, project Project) (string, error)
	GetProject(ctx context.Context, teamId string, id string) (Project, error)
	ListProjects(ctx context.Context, teamId string) ([]Project, error)
	DeleteProject(ctx context.Context, teamId string, id string) error

	CreateMeeting(ctx context.Context, meeting Meeting) (string, error)
	GetMeeting(ctx context.Context, teamId string, id string) (Meeting, error)
	ListMeetings(ctx context.Context, teamId string, opts ...ListOption) ([]Meeting, error)

	// CompleteMeeting persists summary, title, and the document embedding
	// together with the completed status in a single write, so a partially
	// processed meeting is never visible as completed.
	CompleteMeeting(ctx context.Context, id string, summary string, title string, vector []float32) error
	FailMeeting(ctx context.Context, id string) error
}
