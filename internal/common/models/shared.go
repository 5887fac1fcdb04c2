package models

import (
	"slices"
	"strings"
	"time"
)

const (
	RoleAdmin   = "admin"
	SystemActor = "system"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// System returns the actor used for automatic decisions
func System() Actor {
	return Actor{UserID: SystemActor, Roles: []string{RoleAdmin}}
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// HasRole compares role names case-insensitively
func (a Actor) HasRole(role string) bool {
	if role == "" {
		return false
	}
	return slices.ContainsFunc(a.Roles, func(r string) bool {
		return strings.EqualFold(r, role)
	})
}

// Log is the document written by the logger's Mongo sink
type Log struct {
	AppId        string    `bson:"app_id" json:"app_id"`
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	ActorID      string    `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	IpAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
