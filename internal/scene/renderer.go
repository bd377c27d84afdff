package scene

// Renderer draws view-models. Render is called once per committed transition;
// ReportError receives failed transitions, after which the previous scene stays.
type Renderer interface {
	Render(ViewModel)
	ReportError(error)
}

// Recorder is a Renderer that keeps everything it is given.
type Recorder struct {
	Views  []ViewModel
	Errors []error
}

func (r *Recorder) Render(vm ViewModel)   { r.Views = append(r.Views, vm) }
func (r *Recorder) ReportError(err error) { r.Errors = append(r.Errors, err) }

// Last returns the most recent view-model, or nil.
func (r *Recorder) Last() ViewModel {
	if len(r.Views) == 0 {
		return nil
	}
	return r.Views[len(r.Views)-1]
}

type discardRenderer struct{}

func (discardRenderer) Render(ViewModel)  {}
func (discardRenderer) ReportError(error) {}
