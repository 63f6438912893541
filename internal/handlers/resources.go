package handlers

import (
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/events"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"
)

// Collection names, used as route segments and event topics.
const (
	UsersCollection = "users"
	ToolsCollection = "werkzeuge"
)

// NewUserResource serves the user records.
func NewUserResource(repo store.Repository[models.User], pub events.Publisher) *Resource[models.User] {
	return &Resource[models.User]{
		Collection: UsersCollection,
		Entity:     "user",
		Label:      "User",
		Repo:       repo,
		Events:     pub,
	}
}

// NewToolResource serves the tool records. New tools start unborrowed; later
// lending changes arrive as full-record replacements.
func NewToolResource(repo store.Repository[models.Tool], pub events.Publisher) *Resource[models.Tool] {
	return &Resource[models.Tool]{
		Collection: ToolsCollection,
		Entity:     "werkzeug",
		Label:      "Werkzeug",
		Repo:       repo,
		Events:     pub,
		OnCreate:   models.PrepareNewTool,
	}
}
