package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PollResponse is one participant's answer to one question.
type PollResponse struct {
	Participant    primitive.ObjectID `bson:"participant" json:"participant"`
	SelectedOption string             `bson:"selected_option" json:"selected_option"`
	AnsweredAt     time.Time          `bson:"answered_at" json:"answered_at"`
}

// PollQuestion is embedded on the poll document.
type PollQuestion struct {
	Question  string         `bson:"question" json:"question"`
	Options   []string       `bson:"options" json:"options"`
	Responses []PollResponse `bson:"responses" json:"responses"`
}

// Poll belongs to an event. A participant submits answers to every question
// at once and may submit at most one ballot, ever.
type Poll struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	Title     string             `bson:"title" json:"title"`
	Questions []PollQuestion     `bson:"questions" json:"questions"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// HasAnswered reports whether the user already has a response recorded on
// any question of the poll.
func (p Poll) HasAnswered(userID primitive.ObjectID) bool {
	for _, q := range p.Questions {
		for _, r := range q.Responses {
			if r.Participant == userID {
				return true
			}
		}
	}
	return false
}
