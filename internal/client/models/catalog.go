package models

import (
	"math/rand/v2"
	"strconv"
	"unicode"
)

// Option lists offered when editing an ad.
var (
	Genders = []string{
		"Male", "Female", "Transgender", "Gender neutral", "Non-binary",
		"Agender", "Pangender", "Genderqueer", "Two-spirit", "Third gender",
	}
	BodyParts = []string{
		"Torso and Legs", "Head", "Eyes", "Ears", "Neck",
		"Torso", "hands", "Waist", "Legs", "Feet",
	}
	Types = []string{
		"Sweater", "Dress", "Hoodies", "T-shirt", "Flip-flops", "Shorts",
		"Skirt", "Jeans", "Shoes", "Coat", "High heels", "Suit", "Cap",
		"Socks", "Shirt", "Bra", "Scarf", "Swimsuit", "Hat", "Gloves",
		"Jacket", "Long coat", "Boots", "Sunglasses", "Tie", "Polo shirt",
		"Leather jackets",
	}
)

// Options returns the catalogue for an ad field, or nil for free-text fields.
func Options(field string) []string {
	switch field {
	case "gender":
		return Genders
	case "bodyPart":
		return BodyParts
	case "type":
		return Types
	}
	return nil
}

// RandomAd fills the catalogue fields of seed with random picks and bumps
// the trailing number of its title and description ("asdf1" -> "asdf2").
func RandomAd(seed Ad, r *rand.Rand) Ad {
	pick := func(list []string) string {
		if r != nil {
			return list[r.IntN(len(list))]
		}
		return list[rand.IntN(len(list))]
	}
	seed.Gender = pick(Genders)
	seed.BodyPart = pick(BodyParts)
	seed.Type = pick(Types)
	seed.Title = bumpSuffix(seed.Title)
	seed.Description = bumpSuffix(seed.Description)
	return seed
}

func bumpSuffix(s string) string {
	if s == "" {
		return "1"
	}
	last := rune(s[len(s)-1])
	if !unicode.IsDigit(last) {
		return s + "1"
	}
	return s[:len(s)-1] + strconv.Itoa(int(last-'0')+1)
}
