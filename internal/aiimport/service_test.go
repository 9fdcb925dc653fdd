package aiimport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

type stubExtractor struct {
	extraction Extraction
	err        error
	calls      int
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ Options) (Extraction, error) {
	s.calls++
	return s.extraction, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractPrefersAgent(t *testing.T) {
	agent := &stubExtractor{extraction: Extraction{
		Items:      []ExtractedItem{{Name: "Basler acA2500", Make: "Basler", Quantity: 2, Category: "Vision"}},
		TotalItems: 1,
	}}
	fallback := &stubExtractor{}
	svc := NewService(discardLogger(), agent, fallback)

	result, err := svc.Extract(context.Background(), "2x Basler acA2500 cameras", Options{})
	require.NoError(t, err)
	require.Equal(t, "ai", result.Source)
	require.Equal(t, 1, result.TotalItems)
	require.Zero(t, fallback.calls)
}

func TestExtractFallsBackOnAgentError(t *testing.T) {
	agent := &stubExtractor{err: errors.New("rate limited")}
	fallback := &stubExtractor{extraction: Extraction{Items: []ExtractedItem{{Name: "Servo motor", Quantity: 1}}, TotalItems: 1}}
	svc := NewService(discardLogger(), agent, fallback)

	result, err := svc.Extract(context.Background(), "Servo motor", Options{})
	require.NoError(t, err)
	require.Equal(t, "keyword", result.Source)
	require.Equal(t, 1, agent.calls)
	require.Equal(t, 1, fallback.calls)
}

func TestExtractWithoutAgentUsesFallback(t *testing.T) {
	fallback := &stubExtractor{extraction: Extraction{Items: []ExtractedItem{}, TotalItems: 0}}
	svc := NewService(discardLogger(), nil, fallback)

	result, err := svc.Extract(context.Background(), "anything", Options{})
	require.NoError(t, err)
	require.Equal(t, "keyword", result.Source)
}

func TestExtractRejectsEmptyText(t *testing.T) {
	svc := NewService(discardLogger(), nil, NewKeywordExtractor())

	_, err := svc.Extract(context.Background(), "   \n  ", Options{})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestKeywordExtractorParsesLines(t *testing.T) {
	extractor := NewKeywordExtractor()

	text := `- Basler acA2500 camera x2
* Servo motor 750W qty 3
SMC pneumatic cylinder
4 nos proximity sensor

Mounting bracket`
	extraction, err := extractor.Extract(context.Background(), text, Options{KnownMakes: []string{"Basler", "SMC"}})
	require.NoError(t, err)
	require.Equal(t, 5, extraction.TotalItems)

	byName := map[string]ExtractedItem{}
	for _, item := range extraction.Items {
		byName[item.Name] = item
	}
	camera, ok := byName["Basler acA2500 camera"]
	require.True(t, ok)
	require.Equal(t, 2.0, camera.Quantity)
	require.Equal(t, "Vision", camera.Category)
	require.Equal(t, "Basler", camera.Make)

	servo, ok := byName["Servo motor 750W"]
	require.True(t, ok)
	require.Equal(t, 3.0, servo.Quantity)
	require.Equal(t, "Motion", servo.Category)

	cylinder, ok := byName["SMC pneumatic cylinder"]
	require.True(t, ok)
	require.Equal(t, 1.0, cylinder.Quantity)
	require.Equal(t, "Pneumatics", cylinder.Category)
	require.Equal(t, "SMC", cylinder.Make)

	servo = byName["Servo motor 750W"]
	require.Empty(t, servo.Make)

	sensor, ok := byName["proximity sensor"]
	require.True(t, ok)
	require.Equal(t, 4.0, sensor.Quantity)
	require.Equal(t, "Electrical", sensor.Category)

	bracket, ok := byName["Mounting bracket"]
	require.True(t, ok)
	require.Equal(t, "Fabrication", bracket.Category)
}
