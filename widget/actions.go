package widget

// ActionHandler selects where a widget action is dispatched.
type ActionHandler string

const (
	// HandlerClient actions are handled entirely in the UI.
	HandlerClient ActionHandler = "client"
	// HandlerServer actions are posted back as custom-action requests.
	HandlerServer ActionHandler = "server"
)

// ActionConfig describes what happens when a widget control is activated.
// Type and Payload are opaque to this core; the integrating application's
// action hook interprets them.
type ActionConfig struct {
	Type            string         `json:"type"`
	Payload         map[string]any `json:"payload,omitempty"`
	Handler         ActionHandler  `json:"handler,omitempty"`
	LoadingBehavior string         `json:"loading_behavior,omitempty"`
}

// ServerAction creates an ActionConfig dispatched back to the server.
func ServerAction(actionType string, payload map[string]any) ActionConfig {
	return ActionConfig{Type: actionType, Payload: payload, Handler: HandlerServer}
}
