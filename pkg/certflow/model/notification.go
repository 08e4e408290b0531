package model

import "fmt"

type Threshold struct {
	Days    int  `json:"days"`
	Enabled bool `json:"enabled"`
}

// Type returns the notification record type of the threshold, e.g. "7day".
func (t Threshold) Type() string {
	return fmt.Sprintf("%dday", t.Days)
}

type NotificationRecipients struct {
	Emails    []string `json:"emails"`
	Usernames []string `json:"usernames"`
	Roles     []string `json:"roles"`
}

// NotificationConfig is the single global notification configuration.
type NotificationConfig struct {
	Enabled       bool                   `json:"enabled"`
	Thresholds    []Threshold            `json:"thresholds"`
	Recipients    NotificationRecipients `json:"recipients"`
	SubjectPrefix string                 `json:"subject_prefix"`
}
