package entities

// Analysis is the derived-insight payload attached to a meeting after
// post-processing completes. Once attached it is never mutated; a re-run
// replaces the whole payload (last write wins).
type Analysis struct {
	MindMap     MindMap      `json:"mindMap"`
	Summary     string       `json:"summary"`
	KeyPoints   []string     `json:"keyPoints"`
	ActionItems []ActionItem `json:"actionItems"`
}

// MindMap is a radial topic map extracted from the transcript
type MindMap struct {
	CentralTopic string        `json:"centralTopic"`
	Nodes        []MindMapNode `json:"nodes"`
}

// MindMapNode is a single topic node with a layout position
type MindMapNode struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Position Position `json:"position"`
}

// Position is a 2D layout coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActionItem is a follow-up task extracted from the meeting
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	Deadline string `json:"deadline"`
}

// Clone returns a deep copy of the analysis payload
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	cp := *a
	if a.MindMap.Nodes != nil {
		cp.MindMap.Nodes = make([]MindMapNode, len(a.MindMap.Nodes))
		copy(cp.MindMap.Nodes, a.MindMap.Nodes)
	}
	if a.KeyPoints != nil {
		cp.KeyPoints = make([]string, len(a.KeyPoints))
		copy(cp.KeyPoints, a.KeyPoints)
	}
	if a.ActionItems != nil {
		cp.ActionItems = make([]ActionItem, len(a.ActionItems))
		copy(cp.ActionItems, a.ActionItems)
	}
	return &cp
}
