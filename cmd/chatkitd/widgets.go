package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Timestep-AI/timestep-ai-sub001/server"
	"github.com/Timestep-AI/timestep-ai-sub001/widget"
)

// fakeForecast is the canned commentary the demo widget streams. A real
// integration would pull this from a weather API.
const fakeForecast = "Clear skies through the afternoon with a light breeze from the northwest. " +
	"Temperatures hold near 22°C before dipping after sunset. No rain expected until the weekend."

// streamWeatherWidget pushes a weather card through the side channel while
// the model is still answering: a fixed header first, then the forecast text
// growing in chunks.
func streamWeatherWidget(ctx context.Context, actx *server.AgentContext) error {
	roots := make(chan widget.Root)
	done := make(chan struct{})
	var streamErr error

	go func() {
		defer close(done)
		_, streamErr = actx.StreamWidget(ctx, roots, fakeForecast)
	}()

	words := strings.Fields(fakeForecast)
	sent := ""
	send := func(streaming bool) bool {
		select {
		case roots <- weatherCard(sent, streaming):
			return true
		case <-ctx.Done():
			return false
		}
	}

	ok := send(true)
	for i := 0; ok && i < len(words); i += 4 {
		end := min(i+4, len(words))
		if sent != "" {
			sent += " "
		}
		sent += strings.Join(words[i:end], " ")
		ok = send(end < len(words))
		time.Sleep(30 * time.Millisecond)
	}
	close(roots)
	<-done

	if streamErr != nil {
		return fmt.Errorf("weather widget: %w", streamErr)
	}
	if !ok {
		return ctx.Err()
	}
	return nil
}

// weatherCard builds one snapshot of the forecast widget. Node ids are
// stable across snapshots so the growing text diffs to deltas.
func weatherCard(forecast string, streaming bool) widget.Root {
	return widget.Card{
		ComponentBase: widget.ComponentBase{ID: "weather-card"},
		Type:          widget.TypeCard,
		Padding:       2,
		Children: []widget.Component{
			widget.Row{
				ComponentBase: widget.ComponentBase{ID: "weather-header"},
				Type:          widget.TypeRow,
				Gap:           2,
				Children: []widget.Component{
					widget.Title{
						ComponentBase: widget.ComponentBase{ID: "weather-title"},
						Type:          widget.TypeTitle,
						Value:         "Today's weather",
					},
					widget.Badge{
						ComponentBase: widget.ComponentBase{ID: "weather-badge"},
						Type:          widget.TypeBadge,
						Label:         "22°C",
						Color:         "blue",
					},
				},
			},
			widget.Divider{
				ComponentBase: widget.ComponentBase{ID: "weather-divider"},
				Type:          widget.TypeDivider,
			},
			widget.Markdown{
				ComponentBase: widget.ComponentBase{ID: "weather-forecast"},
				Type:          widget.TypeMarkdown,
				Value:         forecast,
				Streaming:     streaming,
			},
		},
	}
}
