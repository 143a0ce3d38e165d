package chatbot

import "brgyalert/backend/internal/analysis"

// Topic identifies a canned answer. The localization key is "chat_" + topic.
type Topic string

const (
	TopicEmergency   Topic = "emergency"
	TopicFlood       Topic = "flood"
	TopicReport      Topic = "report"
	TopicAlertTypes  Topic = "alert_types"
	TopicOfficeHours Topic = "office_hours"
	TopicDocuments   Topic = "documents"
	TopicHealth      Topic = "health"
	TopicContact     Topic = "contact"
	TopicThanks      Topic = "thanks"
	TopicGreeting    Topic = "greeting"
	TopicFallback    Topic = "fallback"
)

type rule struct {
	topic    Topic
	keywords []string
}

// rules are checked in order and the first match wins, so the more urgent or
// more specific topics come first ("how do I report an emergency" is an
// emergency question, not a reporting one).
var rules = []rule{
	{TopicEmergency, []string{"emergency", "hotline", "911", "fire", "sunog", "accident", "aksidente", "saklolo", "rescue"}},
	{TopicFlood, []string{"flood", "flooding", "baha", "typhoon", "bagyo", "evacuate", "evacuation", "evacuation center", "lumikas", "ebakwasyon", "landslide"}},
	{TopicReport, []string{"report", "reports", "submit", "complaint", "complain", "reklamo", "ireport"}},
	{TopicAlertTypes, []string{"alert", "alerts", "advisory", "announcement", "announcements", "warning", "abiso", "babala"}},
	{TopicOfficeHours, []string{"office hours", "hours", "open", "opening", "closed", "close", "schedule", "oras", "bukas", "sarado"}},
	{TopicDocuments, []string{"clearance", "certificate", "certification", "cedula", "indigency", "residency", "permit", "document", "documents", "dokumento"}},
	{TopicHealth, []string{"health", "doctor", "nurse", "clinic", "vaccine", "vaccination", "bakuna", "sick", "sakit", "kalusugan", "dengue", "check-up", "checkup"}},
	{TopicContact, []string{"contact", "location", "address", "where", "saan", "nasaan", "phone", "email"}},
	{TopicThanks, []string{"thanks", "thank you", "salamat"}},
	{TopicGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "magandang umaga", "magandang hapon", "magandang gabi", "magandang araw", "kumusta", "kamusta", "help", "tulong"}},
}

// Classify maps a question onto the first matching topic, or TopicFallback.
func Classify(message string) Topic {
	tokens := analysis.Tokens(message)
	for _, r := range rules {
		if _, ok := analysis.MatchAny(tokens, r.keywords); ok {
			return r.topic
		}
	}
	return TopicFallback
}

func (t Topic) key() string {
	return "chat_" + string(t)
}
