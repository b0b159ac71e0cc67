package session

import (
	"errors"
	"testing"

	"github.com/phambaophuc/el-inspector/internal/models"
	"github.com/stretchr/testify/require"
)

var (
	testImage  = &models.UploadedImage{DataURL: "data:image/jpeg;base64,AAAA", MIMEType: "image/jpeg", Width: 10, Height: 10}
	testResult = &models.AnalysisResult{Category: models.CategoryMicrocrack, Confidence: 71}
)

func apply(t *testing.T, s State, events ...Event) State {
	t.Helper()
	for _, e := range events {
		var applied bool
		s, applied = Transition(s, e)
		require.True(t, applied, EventName(e))
	}
	return s
}

func TestHappyPath(t *testing.T) {
	s := NewState()
	require.Equal(t, PhaseEmpty, s.Phase)

	s = apply(t, s, ImageUploaded{Image: testImage})
	require.Equal(t, PhaseImageLoaded, s.Phase)
	require.Same(t, testImage, s.Image)

	s = apply(t, s, AnalyzeRequested{})
	require.Equal(t, PhaseAnalyzing, s.Phase)
	require.Equal(t, 1, s.Attempt)

	s = apply(t, s, AnalysisSucceeded{Attempt: 1, Result: testResult})
	require.Equal(t, PhaseResulted, s.Phase)
	require.Same(t, testResult, s.Result)
	require.Empty(t, s.Error)
}

func TestResetFromResultedClearsEverything(t *testing.T) {
	s := apply(t, NewState(),
		ImageUploaded{Image: testImage},
		AnalyzeRequested{},
		AnalysisSucceeded{Attempt: 1, Result: testResult},
		Reset{},
	)

	require.Equal(t, PhaseEmpty, s.Phase)
	require.Nil(t, s.Image)
	require.Nil(t, s.Result)
	require.Empty(t, s.Error)
}

func TestResetFromEveryPhase(t *testing.T) {
	states := []State{
		NewState(),
		{Phase: PhaseImageLoaded, Image: testImage},
		{Phase: PhaseAnalyzing, Image: testImage, Attempt: 3},
		{Phase: PhaseResulted, Image: testImage, Result: testResult},
		{Phase: PhaseErrored, Error: "boom"},
	}
	for _, s := range states {
		next, applied := Transition(s, Reset{})
		require.True(t, applied)
		require.Equal(t, PhaseEmpty, next.Phase, s.Phase)
		require.Nil(t, next.Image)
		require.Equal(t, s.Attempt, next.Attempt)
	}
}

func TestAnalyzeWhileAnalyzingIsNoop(t *testing.T) {
	s := apply(t, NewState(), ImageUploaded{Image: testImage}, AnalyzeRequested{})

	next, applied := Transition(s, AnalyzeRequested{})
	require.False(t, applied)
	require.Equal(t, s, next)
	require.Equal(t, 1, next.Attempt)
}

func TestAnalyzeWithoutImageIsNoop(t *testing.T) {
	_, applied := Transition(NewState(), AnalyzeRequested{})
	require.False(t, applied)

	_, applied = Transition(State{Phase: PhaseErrored, Error: UploadFailedMessage}, AnalyzeRequested{})
	require.False(t, applied)

	_, applied = Transition(State{Phase: PhaseResulted, Image: testImage, Result: testResult}, AnalyzeRequested{})
	require.False(t, applied)
}

func TestFailureThenRetry(t *testing.T) {
	s := apply(t, NewState(),
		ImageUploaded{Image: testImage},
		AnalyzeRequested{},
		AnalysisFailed{Attempt: 1, Message: "Error: empty response from model"},
	)
	require.Equal(t, PhaseErrored, s.Phase)
	require.Equal(t, "Error: empty response from model", s.Error)
	require.NotNil(t, s.Image)

	s = apply(t, s, AnalyzeRequested{})
	require.Equal(t, PhaseAnalyzing, s.Phase)
	require.Empty(t, s.Error)
	require.Equal(t, 2, s.Attempt)
}

func TestStaleCompletionsAreIgnored(t *testing.T) {
	s := apply(t, NewState(), ImageUploaded{Image: testImage}, AnalyzeRequested{}, Reset{})

	_, applied := Transition(s, AnalysisSucceeded{Attempt: 1, Result: testResult})
	require.False(t, applied)

	s = apply(t, s, ImageUploaded{Image: testImage}, AnalyzeRequested{})
	require.Equal(t, 2, s.Attempt)

	_, applied = Transition(s, AnalysisFailed{Attempt: 1, Message: "late"})
	require.False(t, applied)

	s = apply(t, s, AnalysisFailed{Attempt: 2, Message: "now"})
	require.Equal(t, "now", s.Error)
}

func TestUploadRules(t *testing.T) {
	analyzing := State{Phase: PhaseAnalyzing, Image: testImage, Attempt: 1}
	_, applied := Transition(analyzing, ImageUploaded{Image: testImage})
	require.False(t, applied)
	_, applied = Transition(analyzing, UploadFailed{Err: errors.New("x")})
	require.False(t, applied)

	s := apply(t, NewState(), UploadFailed{Err: errors.New("decode")})
	require.Equal(t, PhaseErrored, s.Phase)
	require.Equal(t, UploadFailedMessage, s.Error)

	replacement := &models.UploadedImage{DataURL: "data:image/jpeg;base64,BBBB"}
	s = apply(t, State{Phase: PhaseResulted, Image: testImage, Result: testResult}, ImageUploaded{Image: replacement})
	require.Equal(t, PhaseImageLoaded, s.Phase)
	require.Same(t, replacement, s.Image)
	require.Nil(t, s.Result)
	require.Empty(t, s.Error)

	_, applied = Transition(NewState(), ImageUploaded{})
	require.False(t, applied)
}
