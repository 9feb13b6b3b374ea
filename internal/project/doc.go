// Package project stores the projects managed through the ProjectHub API.
//
// A project has a name and a free-form description. Only those two fields
// can change after creation; IDs and timestamps are owned by the store.
package project
