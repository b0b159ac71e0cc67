package session

// Transition returns the state that follows s after e, and whether e was applied.
// Events that do not apply leave s unchanged.
func Transition(s State, e Event) (State, bool) {
	switch ev := e.(type) {
	case ImageUploaded:
		if s.Phase == PhaseAnalyzing || ev.Image == nil {
			return s, false
		}
		s.Phase = PhaseImageLoaded
		s.Image = ev.Image
		s.Result = nil
		s.Error = ""
		return s, true

	case UploadFailed:
		if s.Phase == PhaseAnalyzing {
			return s, false
		}
		s.Phase = PhaseErrored
		s.Result = nil
		s.Error = UploadFailedMessage
		return s, true

	case AnalyzeRequested:
		if !s.CanAnalyze() {
			return s, false
		}
		s.Phase = PhaseAnalyzing
		s.Error = ""
		s.Attempt++
		return s, true

	case AnalysisSucceeded:
		if s.Phase != PhaseAnalyzing || ev.Attempt != s.Attempt || ev.Result == nil {
			return s, false
		}
		s.Phase = PhaseResulted
		s.Result = ev.Result
		return s, true

	case AnalysisFailed:
		if s.Phase != PhaseAnalyzing || ev.Attempt != s.Attempt {
			return s, false
		}
		s.Phase = PhaseErrored
		s.Error = ev.Message
		return s, true

	case Reset:
		return State{Phase: PhaseEmpty, Attempt: s.Attempt}, true
	}

	return s, false
}
