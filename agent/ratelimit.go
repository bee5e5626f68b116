package agent

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/tailored-agentic-units/interview/core/protocol"
	"github.com/tailored-agentic-units/interview/core/response"
)

type limited struct {
	Agent
	limiter *rate.Limiter
}

// WithRateLimit wraps a so that Chat and Generate wait for a token from a
// limiter allowing rps requests per second. A burst below 1 is treated as 1.
func WithRateLimit(a Agent, rps float64, burst int) Agent {
	if burst < 1 {
		burst = 1
	}
	return &limited{
		Agent:   a,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *limited) Chat(ctx context.Context, messages []protocol.Message) (*response.ChatResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return l.Agent.Chat(ctx, messages)
}

func (l *limited) Generate(ctx context.Context, system, prompt string) (string, error) {
	return generate(ctx, l, system, prompt)
}
