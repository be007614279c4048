package form

import (
	"context"
	"strings"
	"sync"

	"github.com/praxisio/contactrelay/pkg/emailcheck"
)

// State is the submit lifecycle of one form instance. IsSubmitting and
// IsSubmitted are never both true.
type State struct {
	IsSubmitting bool
	IsSubmitted  bool
	// EmailError is the field-level message for the email input; empty
	// means no error. Cleared the moment the email field changes.
	EmailError string
	// FormError is the form-level message from the last failed submit;
	// any edit dismisses it.
	FormError string
}

// Submitter performs the network submission. Implemented by Client.
type Submitter interface {
	Submit(ctx context.Context, data Data, additional map[string]string) Result
}

// Controller owns the mutable state of one form instance and applies UI
// events as transitions: idle -> submitting -> submitted, or back to idle
// carrying a form-level error. Submitted is terminal; a new Controller is
// created when the form remounts.
type Controller struct {
	mu        sync.Mutex
	data      Data
	state     State
	submitter Submitter
	validator *emailcheck.Validator
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDefaults seeds the form's initial field values, e.g. formType and
// language from the page context.
func WithDefaults(data Data) ControllerOption {
	return func(c *Controller) {
		c.data = data
	}
}

// WithEmailValidator overrides the business-email validator.
func WithEmailValidator(v *emailcheck.Validator) ControllerOption {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// NewController creates a form controller in the idle state.
func NewController(submitter Submitter, opts ...ControllerOption) (*Controller, error) {
	if submitter == nil {
		return nil, ErrNilSubmitter
	}

	c := &Controller{
		submitter: submitter,
		validator: emailcheck.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FieldChange merges one edited field into the form data. Events with an
// unknown or empty field name are ignored; UI event sources are untrusted.
// Editing the email field clears its field-level error, and any edit
// dismisses the last form-level error.
func (c *Controller) FieldChange(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		return
	}
	if !c.data.setField(name, value) {
		return
	}

	if name == "email" {
		c.state.EmailError = ""
	}
	c.state.FormError = ""
}

// EmailBlur validates the email field when the user leaves it. An empty
// value clears the error instead of flagging it; required-ness is enforced
// at submit time, not on blur.
func (c *Controller) EmailBlur(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(value) == "" {
		c.state.EmailError = ""
		return
	}

	res := c.validator.Validate(value, c.data.lang())
	c.state.EmailError = res.Message
}

// Submit runs one submission attempt. additional carries page metadata
// (UTM parameters, source path) merged into the payload. On success the
// controller transitions to submitted and clears the per-message fields;
// on failure it returns to idle with FormError set, and EmailError set if
// the server reported an email-specific validation error.
func (c *Controller) Submit(ctx context.Context, additional map[string]string) error {
	c.mu.Lock()
	if c.state.IsSubmitting {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	if c.state.IsSubmitted {
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	c.state.IsSubmitting = true
	c.state.FormError = ""
	data := c.data
	c.mu.Unlock()

	res := c.submitter.Submit(ctx, data, additional)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.IsSubmitting = false

	if res.Success {
		c.state.IsSubmitted = true
		c.data.resetAfterSubmit()
		return nil
	}

	c.state.FormError = res.Error
	if msg, ok := res.ValidationErrors["email"]; ok {
		c.state.EmailError = msg
	}
	return nil
}

// Data returns a copy of the current form data.
func (c *Controller) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// State returns a copy of the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
