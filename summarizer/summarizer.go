package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/w-h-a/minutes/generator"
)

const (
	// DefaultTitle is used when the model does not surface a meeting name.
	DefaultTitle = "Untitled Meeting"

	nameFieldLabel = "1. Meeting Name:"

	instructionTemplate = `You are responsible for documenting meetings. You will be given a transcript for a meeting and project details, and you should write a structured minutes of meeting. Please include the following information in your report, if any information is not available, write "Not mentioned":

%s1. Meeting Name: (Try to deduce this from the transcript)
2. Related Project: (Use the project information provided above)
3. Date:
4. Time:
5. Participants:
6. Meeting Transcript: (A detailed restructured transcript of everything discussed, mention as many details as possible)
7. Action Plan: (List any action items, tasks, or next steps mentioned in the meeting)

Please maintain this exact structure in your response. The report should be clear and professional. Meetings and reports are in Arabic.`
)

// Project is the optional context record injected into the instruction.
// Team holds whatever team label the caller has. Team profiles live in an
// external service, so this is usually the team identifier rather than a
// display name.
type Project struct {
	Title       string
	Description string
	Team        string
	StartDate   string
	EndDate     string
}

type Summary struct {
	Text  string
	Title string
}

type Summarizer struct {
	generator generator.Generator
}

// Summarize produces structured minutes for one transcript and derives the
// meeting title from the schema's first field.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, project *Project) (Summary, error) {
	if len(strings.TrimSpace(transcript)) == 0 {
		return Summary{}, errors.New("transcript is required")
	}

	text, err := s.generator.Generate(ctx, s.instruction(project), transcript)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize: %w", err)
	}

	return Summary{
		Text:  text,
		Title: ExtractTitle(text),
	}, nil
}

func (s *Summarizer) instruction(project *Project) string {
	var details string

	if project != nil {
		team := project.Team
		if len(team) == 0 {
			team = "No team assigned"
		}

		details = fmt.Sprintf(`
Project Information:
- Title: %s
- Description: %s
- Team: %s
- Start Date: %s
- End Date: %s
`, project.Title, project.Description, team, project.StartDate, project.EndDate)
	}

	return fmt.Sprintf(instructionTemplate, details)
}

// ExtractTitle scans the minutes line by line for the meeting-name field and
// returns its value, falling back to DefaultTitle when the field is absent or
// carries the "Not mentioned" placeholder.
func ExtractTitle(summary string) string {
	for _, line := range strings.Split(summary, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), nameFieldLabel) {
			continue
		}

		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), nameFieldLabel))
		if len(name) == 0 || strings.EqualFold(name, "not mentioned") {
			return DefaultTitle
		}

		return name
	}

	return DefaultTitle
}

func New(generator generator.Generator) *Summarizer {
	if generator == nil {
		panic("generator is required")
	}

	return &Summarizer{
		generator: generator,
	}
}
