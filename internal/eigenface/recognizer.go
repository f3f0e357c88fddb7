package eigenface

// Recognizer finds the gallery face that most resembles a probe.
// Implementations other than PCARecognizer (for example one backed by an
// external embedding service) can be swapped in behind this interface.
type Recognizer interface {
	Recognize(gallery Gallery, probe FaceVector) (MatchResult, error)
}

// PCARecognizer is the Eigenfaces Recognizer. It trains a fresh model from the
// gallery on every call and keeps no state, so one value can serve concurrent
// callers as long as they do not mutate the gallery while it is in use.
type PCARecognizer struct {
	Trainer *Trainer
}

// NewPCARecognizer returns a recognizer that trains with t. A nil t uses the
// default Trainer.
func NewPCARecognizer(t *Trainer) *PCARecognizer {
	return &PCARecognizer{Trainer: t}
}

// Recognize implements Recognizer. An empty gallery returns NoMatch without error.
func (r *PCARecognizer) Recognize(gallery Gallery, probe FaceVector) (MatchResult, error) {
	d, err := r.RecognizeDetailed(gallery, probe)
	if err != nil {
		return MatchResult{}, err
	}
	return d.Result, nil
}

// Detail is a recognition result together with the model and probe weights it
// was computed from. Model is nil when the gallery was empty.
type Detail struct {
	Result       MatchResult
	Model        *Model
	ProbeWeights []float64
}

// RecognizeDetailed is Recognize that also returns the trained model and the
// probe's weights, for callers that want to reconstruct or inspect them.
func (r *PCARecognizer) RecognizeDetailed(gallery Gallery, probe FaceVector) (*Detail, error) {
	if len(gallery) == 0 {
		return &Detail{Result: NoMatch()}, nil
	}
	model, err := r.trainer().Train(gallery)
	if err != nil {
		return nil, err
	}
	weights, err := model.Project(probe)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Result:       model.match(weights),
		Model:        model,
		ProbeWeights: weights,
	}, nil
}

func (r *PCARecognizer) trainer() *Trainer {
	if r.Trainer == nil {
		return &Trainer{}
	}
	return r.Trainer
}

// Recognize trains on gallery and matches probe with the default settings.
func Recognize(gallery Gallery, probe FaceVector) (MatchResult, error) {
	return (&PCARecognizer{}).Recognize(gallery, probe)
}
