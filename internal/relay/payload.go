package relay

import (
	"fmt"
	"strings"

	"github.com/praxisio/contactrelay/pkg/sanitizer"
	"github.com/praxisio/contactrelay/pkg/validator"
)

// ContactRequest is the submission payload as received over the wire.
// Field names match the form client's JSON.
type ContactRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Company        string `json:"company"`
	JobTitle       string `json:"jobTitle"`
	Message        string `json:"message"`
	Subject        string `json:"subject"`
	FormType       string `json:"formType"`
	Language       string `json:"language"`
	RequestType    string `json:"requestType"`
	Urgency        string `json:"urgency"`
	Segment        string `json:"segment"`
	EmployeeCount  string `json:"employeeCount"`
	Honeypot       string `json:"website"`
	Source         string `json:"source"`
	TurnstileToken string `json:"turnstileToken"`
}

// Normalize trims whitespace and, when no combined name was sent,
// composes one from the first and last name.
func (cr *ContactRequest) Normalize() {
	cr.FirstName = sanitizer.CollapseWhitespace(cr.FirstName)
	cr.LastName = sanitizer.CollapseWhitespace(cr.LastName)
	cr.Name = sanitizer.CollapseWhitespace(cr.Name)
	cr.Email = sanitizer.NormalizeEmail(cr.Email)
	cr.Phone = sanitizer.Trim(cr.Phone)
	cr.Company = sanitizer.CollapseWhitespace(cr.Company)
	cr.JobTitle = sanitizer.CollapseWhitespace(cr.JobTitle)
	cr.Message = sanitizer.Trim(cr.Message)
	cr.Subject = sanitizer.CollapseWhitespace(cr.Subject)

	if cr.Name == "" {
		cr.Name = sanitizer.CollapseWhitespace(cr.FirstName + " " + cr.LastName)
	}
}

// Validate checks the payload after normalization. The honeypot rule
// rejects automated submissions that fill in the hidden field.
func (cr ContactRequest) Validate() error {
	return validator.Apply(
		validator.MinTrimmedLen("name", cr.Name, 2),
		validator.ValidEmail("email", cr.Email),
		validator.MinTrimmedLen("message", cr.Message, 10),
		validator.EmptyString("website", cr.Honeypot),
	)
}

// SubjectOr returns the submitted subject, or def when none was sent.
func (cr ContactRequest) SubjectOr(def string) string {
	if cr.Subject != "" {
		return cr.Subject
	}
	return def
}

// EmailBody renders the plaintext email forwarded to the recipient.
// Optional fields are omitted when empty.
func (cr ContactRequest) EmailBody() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", cr.Name)
	fmt.Fprintf(&b, "Email: %s\n", cr.Email)
	if cr.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", cr.Company)
	}
	if cr.JobTitle != "" {
		fmt.Fprintf(&b, "Job title: %s\n", cr.JobTitle)
	}
	if cr.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", cr.Phone)
	}
	if cr.FormType != "" {
		fmt.Fprintf(&b, "Form type: %s\n", cr.FormType)
	}
	if cr.RequestType != "" {
		fmt.Fprintf(&b, "Request type: %s\n", cr.RequestType)
	}
	if cr.Urgency != "" {
		fmt.Fprintf(&b, "Urgency: %s\n", cr.Urgency)
	}
	if cr.Segment != "" {
		fmt.Fprintf(&b, "Segment: %s\n", cr.Segment)
	}
	if cr.EmployeeCount != "" {
		fmt.Fprintf(&b, "Employees: %s\n", cr.EmployeeCount)
	}
	if cr.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", cr.Source)
	}

	fmt.Fprintf(&b, "\nMessage:\n%s\n", cr.Message)
	return b.String()
}
