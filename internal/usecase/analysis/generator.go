package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/meetflow-app/meetflow/internal/domain/entities"
)

// SimulatedGenerator produces a deterministic analysis payload derived from
// the meeting transcript, after a configurable latency that stands in for a
// real AI backend round trip.
type SimulatedGenerator struct {
	clk     clock.Clock
	latency time.Duration
}

// NewSimulatedGenerator creates a generator with the given simulated latency
func NewSimulatedGenerator(clk clock.Clock, latency time.Duration) *SimulatedGenerator {
	if clk == nil {
		clk = clock.New()
	}
	return &SimulatedGenerator{clk: clk, latency: latency}
}

var mindMapTopics = []string{
	"Key Decisions",
	"Action Items",
	"Discussion Points",
	"Open Questions",
	"Follow-ups",
}

var fallbackKeyPoints = []string{
	"Reviewed progress against the current milestones",
	"Aligned on priorities for the coming sprint",
	"Identified blockers that need escalation",
}

// Generate builds the analysis payload for a finalized meeting
func (g *SimulatedGenerator) Generate(ctx context.Context, meeting *entities.Meeting) (*entities.Analysis, error) {
	if g.latency > 0 {
		timer := g.clk.Timer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return &entities.Analysis{
		MindMap:     buildMindMap(meeting),
		Summary:     buildSummary(meeting),
		KeyPoints:   buildKeyPoints(meeting),
		ActionItems: buildActionItems(meeting),
	}, nil
}

func buildMindMap(meeting *entities.Meeting) entities.MindMap {
	nodes := make([]entities.MindMapNode, 0, len(mindMapTopics))
	for i, topic := range mindMapTopics {
		angle := 2 * math.Pi * float64(i) / float64(len(mindMapTopics))
		nodes = append(nodes, entities.MindMapNode{
			ID:    fmt.Sprintf("node-%d", i+1),
			Label: topic,
			Position: entities.Position{
				X: math.Round(250 * math.Cos(angle)),
				Y: math.Round(250 * math.Sin(angle)),
			},
		})
	}
	return entities.MindMap{
		CentralTopic: meeting.Title,
		Nodes:        nodes,
	}
}

func buildSummary(meeting *entities.Meeting) string {
	return fmt.Sprintf(
		"%s ran for %s with %d participants. The discussion covered %d transcript segments; key decisions and follow-up actions are listed below.",
		meeting.Title,
		(time.Duration(meeting.DurationSeconds) * time.Second).String(),
		len(meeting.Participants),
		len(meeting.Transcript),
	)
}

func buildKeyPoints(meeting *entities.Meeting) []string {
	if len(meeting.Transcript) == 0 {
		points := make([]string, len(fallbackKeyPoints))
		copy(points, fallbackKeyPoints)
		return points
	}

	const maxPoints = 5
	n := len(meeting.Transcript)
	if n > maxPoints {
		n = maxPoints
	}
	points := make([]string, 0, n)
	for _, line := range meeting.Transcript[:n] {
		points = append(points, fmt.Sprintf("%s: %s", line.Speaker, line.Text))
	}
	return points
}

func buildActionItems(meeting *entities.Meeting) []entities.ActionItem {
	tasks := []string{
		"Circulate the meeting notes to the wider team",
		"Schedule a follow-up to review open questions",
		"Update the project tracker with agreed deadlines",
	}
	deadlines := []string{"end of week", "next Monday", "within two weeks"}

	items := make([]entities.ActionItem, 0, len(tasks))
	for i, task := range tasks {
		assignee := "Unassigned"
		if len(meeting.Participants) > 0 {
			assignee = meeting.Participants[i%len(meeting.Participants)].Name
		}
		items = append(items, entities.ActionItem{
			Task:     task,
			Assignee: assignee,
			Deadline: deadlines[i%len(deadlines)],
		})
	}
	return items
}
