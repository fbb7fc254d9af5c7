// Package notify moves outbound email notifications through RabbitMQ.
// The contact form publishes two messages per submission; a background
// consumer delivers them.  Publishing is synchronous with the request
// so a broker failure is surfaced to the submitter instead of being
// silently dropped.
package notify

// EmailMessage is the payload exchanged over the contact.email queue.
// It contains everything the consumer needs to deliver one email
// without querying the primary database.
type EmailMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
