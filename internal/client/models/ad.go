package models

import (
	"fmt"
	"net/url"
	"path"
)

// NoPhoto marks an ad without an uploaded photo.
const NoPhoto = "/default.png"

// Ad is a donation listing.
type Ad struct {
	ID          string `json:"id"`
	Gender      string `json:"gender"`
	BodyPart    string `json:"bodyPart"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsGiven     bool   `json:"isGiven"`
	Photo       string `json:"photo"`
	OwnerID     string `json:"ownerId"`
}

var adFields = []string{"id", "gender", "bodyPart", "type", "title", "description", "isGiven", "photo", "ownerId"}

// AdTemplate is the draft a fresh ad form starts from.
func AdTemplate() Ad {
	return Ad{
		Gender:      "Male",
		BodyPart:    "Torso and Legs",
		Type:        "Sweater",
		Title:       "asdf1",
		Description: "asdf desc1",
		Photo:       NoPhoto,
	}
}

func (a Ad) GetID() string { return a.ID }

func (a Ad) Fields() []string { return adFields }

func (a Ad) Value(field string) any {
	switch field {
	case "id":
		return a.ID
	case "gender":
		return a.Gender
	case "bodyPart":
		return a.BodyPart
	case "type":
		return a.Type
	case "title":
		return a.Title
	case "description":
		return a.Description
	case "isGiven":
		return a.IsGiven
	case "photo":
		return a.Photo
	case "ownerId":
		return a.OwnerID
	}
	return nil
}

func (a Ad) With(field, text string) (Ad, error) {
	switch field {
	case "id":
		return a, fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	case "gender":
		a.Gender = text
	case "bodyPart":
		a.BodyPart = text
	case "type":
		a.Type = text
	case "title":
		a.Title = text
	case "description":
		a.Description = text
	case "isGiven":
		b, err := parseBool(field, text)
		if err != nil {
			return a, err
		}
		a.IsGiven = b
	case "photo":
		a.Photo = text
	case "ownerId":
		a.OwnerID = text
	default:
		return a, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return a, nil
}

// HasPhoto reports whether the photo points at an uploaded object.
func (a Ad) HasPhoto() bool {
	return a.Photo != "" && a.Photo != NoPhoto
}

// PhotoKey is the storage key of the photo: the last segment of its URL
// path. It is empty when the ad has no photo.
func (a Ad) PhotoKey() string {
	if !a.HasPhoto() {
		return ""
	}
	p := a.Photo
	if u, err := url.Parse(a.Photo); err == nil {
		p = u.Path
	}
	key := path.Base(p)
	if key == "/" || key == "." {
		return ""
	}
	return key
}
