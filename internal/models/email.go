package models

// EmailJob is the dispatch queue payload for one outbound message. It
// exists only inside the queue; durability (if any) is the queue's concern.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}
