// Package usecase contains the feature flows: one per screen (job-match,
// enhancer, ATS score, ATS convert, cover-letter), each orchestrating upload
// state and free text through the gateway and the error normalizer. The
// flows own the contracts; whatever renders their results is presentational.
package usecase

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"kinovek-client/internal/domain"
	"kinovek-client/internal/upload"
	"kinovek-client/pkg/errmsg"
	"kinovek-client/pkg/logger"
)

var (
	// ErrBusy is returned when a flow already has a request in flight. At
	// most one in-flight request per flow instance is an invariant enforced
	// here, not by the gateway.
	ErrBusy = errors.New("a request is already in flight for this flow")

	// ErrStale is returned when a response arrives after the flow was reset;
	// the result must be discarded, not rendered.
	ErrStale = errors.New("stale response discarded")
)

// Local validation messages, surfaced before any request is dispatched.
const (
	msgResumeRequired         = "Please upload your resume first"
	msgJobDescriptionRequired = "Please paste the job description"
)

// FlowError is a user-facing failure: Message is the sentence the screen
// shows, Err the underlying cause (nil for local validation failures).
type FlowError struct {
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// flow carries what every feature flow shares: the screen's upload state,
// the single-flight gate and the generation counter guarding against stale
// responses. The counter, not transport-level cancellation, is the guard:
// an abandoned call may still resolve, and its result is then thrown away.
type flow struct {
	id       uuid.UUID
	state    *upload.State
	gateway  domain.AnalysisGateway
	notifier domain.Notifier
	validate *validator.Validate

	mu   sync.Mutex
	busy bool
	gen  uint64
}

func newFlow(gw domain.AnalysisGateway, validate *validator.Validate, notifier domain.Notifier, cfg domain.UploadConfiguration) flow {
	return flow{
		id:       uuid.New(),
		state:    upload.NewState(cfg, notifier),
		gateway:  gw,
		notifier: notifier,
		validate: validate,
	}
}

// ID identifies this flow instance in logs.
func (f *flow) ID() uuid.UUID {
	return f.id
}

// Upload exposes the flow's file-intake state.
func (f *flow) Upload() *upload.State {
	return f.state
}

// Busy reports whether a request is currently in flight.
func (f *flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Reset is the unmount analog: it clears the upload state and bumps the
// generation counter so an in-flight request, if any, resolves stale.
func (f *flow) Reset() {
	f.mu.Lock()
	f.gen++
	f.mu.Unlock()
	f.state.Clear()
}

// begin claims the single-flight slot and returns the generation the request
// belongs to.
func (f *flow) begin() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return 0, ErrBusy
	}
	f.busy = true
	return f.gen, nil
}

func (f *flow) finish() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

func (f *flow) stale(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen != gen
}

// require runs struct validation on a flow input and maps the first failure
// to its local message; anything the mapping does not know surfaces as the
// flow's generic fallback, never raw validator text. The gateway is never
// invoked when this fails.
func (f *flow) require(input any, fallback string) *FlowError {
	err := f.validate.Struct(input)
	if err == nil {
		return nil
	}
	message := fallback
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Resume":
			message = msgResumeRequired
		case "JobDescription":
			message = msgJobDescriptionRequired
		}
	}
	logger.Log.Debug("flow input rejected", "flow_id", f.id.String(), "message", message)
	if f.notifier != nil {
		f.notifier.Error(message)
	}
	return &FlowError{Message: message}
}

// fail normalizes a gateway error, notifies, and wraps it for the caller.
// The selected file and typed text are left untouched so a manual retry can
// re-issue the identical request.
func (f *flow) fail(err error, fallback string) *FlowError {
	message := errmsg.Normalize(err, fallback)
	logger.Log.Warn("request failed", "flow_id", f.id.String(), "message", message, "error", err)
	if f.notifier != nil {
		f.notifier.Error(message)
	}
	return &FlowError{Message: message, Err: err}
}

func (f *flow) succeed(message string) {
	logger.Log.Info("request completed", "flow_id", f.id.String())
	if f.notifier != nil {
		f.notifier.Success(message)
	}
}
