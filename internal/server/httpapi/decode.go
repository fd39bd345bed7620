package httpapi

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/donadmin/internal/server/models"
	"github.com/dmitrijs2005/donadmin/internal/server/services"
)

const maxBody = 1 << 20

// decodeBody fills dst from a JSON body, or calls fromForm with the
// fields of a multipart or urlencoded form.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, fromForm func(get func(string) string) error) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBody); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return fromForm(r.FormValue)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return fromForm(r.PostFormValue)
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return nil
	}
}

func decodeAd(w http.ResponseWriter, r *http.Request) (*models.Ad, error) {
	ad := &models.Ad{}
	err := decodeBody(w, r, ad, func(get func(string) string) error {
		ad.Gender = get("gender")
		ad.BodyPart = get("bodyPart")
		ad.Type = get("type")
		ad.Title = get("title")
		ad.Description = get("description")
		ad.Photo = get("photo")
		if v := get("isGiven"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: isGiven: %v", errBadRequest, err)
			}
			ad.IsGiven = b
		}
		return nil
	})
	return ad, err
}

func decodeUser(w http.ResponseWriter, r *http.Request) (services.UserInput, error) {
	var in services.UserInput
	err := decodeBody(w, r, &in, func(get func(string) string) error {
		in.Email = get("email")
		in.Name = get("name")
		in.Password = get("password")
		return nil
	})
	return in, err
}
