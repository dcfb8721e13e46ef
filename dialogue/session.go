package dialogue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aluiziolira/go-scrape-laptops/predict"
)

const textPredictionFailed = "Не удалось получить оценку, попробуйте позже."

// Session runs one user's dialogue and requests a prediction once all
// features are collected.
type Session struct {
	state     State
	data      Data
	predictor predict.Predictor
}

// NewSession starts a dialogue in the main menu.
func NewSession(predictor predict.Predictor) *Session {
	return &Session{state: MainMenu, predictor: predictor}
}

// State returns the current dialogue step.
func (s *Session) State() State {
	return s.state
}

// Handle feeds one input to the dialogue. A prediction failure is reported in
// the reply and returned; the session goes back to the main menu either way.
func (s *Session) Handle(ctx context.Context, input string) (Reply, error) {
	next, data, reply := Transition(s.state, s.data, input)
	slog.Debug("dialogue transition",
		slog.String("from", s.state.String()),
		slog.String("to", next.String()),
	)
	s.state, s.data = next, data
	if next != FeaturesCollected {
		return reply, nil
	}

	s.state, s.data = MainMenu, Data{}
	price, err := s.predictor.Predict(ctx, data.CleanRow())
	if err != nil {
		slog.Error("price prediction failed", slog.Any("error", err))
		return Reply{Text: reply.Text + textPredictionFailed, Choices: MenuChoices}, err
	}

	text := reply.Text + fmt.Sprintf("Ноутбук с вышеуказанными характеристиками стоит от %.0f до %.0f рублей.", price.Min, price.Max)
	return Reply{Text: text, Choices: MenuChoices}, nil
}
