package audit

import "fmt"

// IssueEvent represents a token issuance audit event
type IssueEvent struct {
	Subject      string
	TokenID      string
	Algorithm    string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e IssueEvent) MessageID() string {
	return "issue"
}

func (e IssueEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("issued token %s for %s using %s", e.TokenID, e.Subject, e.Algorithm)
	}
	msg := fmt.Sprintf("failed to issue token for %s", e.Subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e IssueEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e IssueEvent) Facility() int {
	return FacilityAuthPriv
}

func (e IssueEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDToken: {
			"subject": e.Subject,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "issue",
		},
	}
	if e.TokenID != "" {
		sd[SDIDToken]["id"] = e.TokenID
	}
	if e.Algorithm != "" {
		sd[SDIDToken]["algorithm"] = e.Algorithm
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

// VerifyEvent represents a token verification audit event
type VerifyEvent struct {
	Subject      string
	TokenID      string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e VerifyEvent) MessageID() string {
	return "verify"
}

func (e VerifyEvent) Message() string {
	subject := e.Subject
	if subject == "" {
		subject = "an unidentified caller"
	}
	if e.Success {
		return fmt.Sprintf("%s presented a valid token", subject)
	}
	msg := fmt.Sprintf("%s presented an invalid token", subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e VerifyEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e VerifyEvent) Facility() int {
	return FacilityAuth
}

func (e VerifyEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDToken:  {},
		SDIDClient: {"ip": e.ClientIP},
		SDIDAction: {"operation": "verify"},
	}
	if e.Subject != "" {
		sd[SDIDToken]["subject"] = e.Subject
	}
	if e.TokenID != "" {
		sd[SDIDToken]["id"] = e.TokenID
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
