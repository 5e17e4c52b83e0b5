package llm

import "context"

type ActionType string

const (
	ActionClick     ActionType = "click"
	ActionNavigate  ActionType = "navigate"
	ActionTypeInput ActionType = "type"
	ActionScroll    ActionType = "scroll_down"
	ActionWait      ActionType = "wait"
	ActionFinish    ActionType = "finish"
)

type Action struct {
	Type     ActionType `json:"type"`
	TargetID int        `json:"target_id,omitempty"`
	Text     string     `json:"text,omitempty"`
	URL      string     `json:"url,omitempty"`
	Submit   bool       `json:"submit,omitempty"`
}

type DecisionInput struct {
	Task       string
	DOMTree    string
	CurrentURL string
	History    string // short description of previous steps
}

type DecisionOutput struct {
	Thought string `json:"thought"`
	Action  Action `json:"action"`
}

type SummaryInput struct {
	Task       string
	ExitReason string
	FinalURL   string
	Duration   string
	Steps      []string
}

type Client interface {
	DecideAction(ctx context.Context, input DecisionInput) (*DecisionOutput, error)
	SummarizeRun(ctx context.Context, input SummaryInput) (string, error)
	// RefineAdvice rewrites a rule-based advice draft given the raw report
	// JSON. Used by the advisor, and only when explicitly enabled.
	RefineAdvice(ctx context.Context, draft, reportJSON string) (string, error)
}
