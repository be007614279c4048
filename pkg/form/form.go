// Package form implements the submission side of the contact pipeline: the
// per-form data bag, the submit lifecycle controller, and the HTTP client
// that talks to the relay endpoint.
package form

import "strings"

// Form types accepted by the relay. The zero value means a plain contact
// form.
const (
	TypeContact    = "contact"
	TypeSpeaking   = "speaking"
	TypeSupport    = "support"
	TypeNewsletter = "newsletter"
	TypeTrialHelp  = "trial-help"
)

// Data is the per-submission value bag. Field names in JSON match the
// relay's expected payload.
type Data struct {
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Company        string `json:"company,omitempty"`
	JobTitle       string `json:"jobTitle,omitempty"`
	Message        string `json:"message"`
	Subject        string `json:"subject,omitempty"`
	FormType       string `json:"formType,omitempty"`
	Language       string `json:"language,omitempty"`
	RequestType    string `json:"requestType,omitempty"`
	Urgency        string `json:"urgency,omitempty"`
	Segment        string `json:"segment,omitempty"`
	EmployeeCount  string `json:"employeeCount,omitempty"`
	Honeypot       string `json:"website,omitempty"`
	Source         string `json:"source,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

// setField assigns value to the field named by its JSON name. Unknown
// names report false and leave the data untouched.
func (d *Data) setField(name, value string) bool {
	switch name {
	case "firstName":
		d.FirstName = value
	case "lastName":
		d.LastName = value
	case "name":
		d.Name = value
	case "email":
		d.Email = value
	case "phone":
		d.Phone = value
	case "company":
		d.Company = value
	case "jobTitle":
		d.JobTitle = value
	case "message":
		d.Message = value
	case "subject":
		d.Subject = value
	case "formType":
		d.FormType = value
	case "language":
		d.Language = value
	case "requestType":
		d.RequestType = value
	case "urgency":
		d.Urgency = value
	case "segment":
		d.Segment = value
	case "employeeCount":
		d.EmployeeCount = value
	case "website":
		d.Honeypot = value
	case "source":
		d.Source = value
	default:
		return false
	}
	return true
}

// resetAfterSubmit clears the fields a successful submission consumes, so
// a follow-up message keeps company and classification fields intact.
func (d *Data) resetAfterSubmit() {
	d.Email = ""
	d.Message = ""
	d.FirstName = ""
	d.LastName = ""
	d.Phone = ""
}

// lang returns the form's language, defaulting to English.
func (d Data) lang() string {
	if strings.TrimSpace(d.Language) == "" {
		return "en"
	}
	return d.Language
}
