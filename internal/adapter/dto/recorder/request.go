package recorder

// StartRequest represents the request to start a recording session
type StartRequest struct {
	Title        string   `json:"title" validate:"omitempty,max=255"`
	Participants []string `json:"participants" validate:"omitempty,dive,required"`
}

// TranscriptRequest represents the request to append a transcript line
type TranscriptRequest struct {
	Speaker string `json:"speaker" validate:"required,max=255"`
	Text    string `json:"text" validate:"required"`
}
