package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JioBaba369/Go2Culture-sub001/models"
)

func sampleConversation() *models.Conversation {
	return &models.Conversation{
		ID:             "guest1_host1",
		ParticipantIDs: []string{"guest1", "host1"},
		ParticipantInfo: map[string]models.ParticipantInfo{
			"guest1": {Name: "Gina Guest"},
			"host1":  {Name: "Hana Host", PhotoURL: "https://img/hana.jpg"},
		},
		LastMessage: &models.LastMessage{SenderID: "guest1", Text: "Hello", Timestamp: time.Now()},
		ReadBy:      []string{"guest1"},
	}
}

func TestViewForShowsTheOtherSide(t *testing.T) {
	view := viewFor(sampleConversation(), "guest1")

	assert.Equal(t, "guest1_host1", view.ID)
	assert.Equal(t, "host1", view.OtherParticipantID)
	assert.Equal(t, "Hana Host", view.OtherParticipant.Name)
	assert.False(t, view.Unread, "sender reads their own message")

	view = viewFor(sampleConversation(), "host1")
	assert.Equal(t, "guest1", view.OtherParticipantID)
	assert.True(t, view.Unread)
}

func TestOversightViewCarriesBothParticipants(t *testing.T) {
	conversation := sampleConversation()
	view := oversightViewFor(conversation)

	assert.Equal(t, "guest1_host1", view.ID)
	assert.Equal(t, []string{"guest1", "host1"}, view.ParticipantIDs)
	assert.Len(t, view.ParticipantInfo, 2)
	assert.Equal(t, "Gina Guest", view.ParticipantInfo["guest1"].Name)
	assert.Equal(t, "Hana Host", view.ParticipantInfo["host1"].Name)
	assert.Equal(t, conversation.LastMessage, view.LastMessage)
	assert.Equal(t, []string{"guest1"}, view.ReadBy)
}

func TestIsUpsertRace(t *testing.T) {
	race := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	assert.True(t, isUpsertRace(race))

	assert.False(t, isUpsertRace(mongo.ErrNoDocuments))
	assert.False(t, isUpsertRace(nil))
}
