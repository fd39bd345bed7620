package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/donadmin/internal/server/auth"
)

func (s *Server) listAds(w http.ResponseWriter, r *http.Request) {
	items, err := s.ads.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) getAd(w http.ResponseWriter, r *http.Request) {
	ad, err := s.ads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ad)
}

func (s *Server) createAd(w http.ResponseWriter, r *http.Request) {
	in, err := decodeAd(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	owner, _ := UserIDFromContext(r.Context())
	ad, err := s.ads.Create(r.Context(), owner, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "ad created", "id", ad.ID, "owner", owner)
	s.writeJSON(w, r, http.StatusCreated, ad)
}

func (s *Server) updateAd(w http.ResponseWriter, r *http.Request) {
	in, err := decodeAd(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ad, err := s.ads.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, ad)
}

func (s *Server) deleteAd(w http.ResponseWriter, r *http.Request) {
	if err := s.ads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	items, err := s.users.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, u)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	in, err := decodeUser(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "user created", "id", u.ID)
	s.writeJSON(w, r, http.StatusCreated, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	in, err := decodeUser(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.users.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	err := decodeBody(w, r, &c, func(get func(string) string) error {
		c.Email = get("email")
		c.Password = get("password")
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	u, token, err := s.users.Authenticate(r.Context(), c.Email, c.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	auth.SetCookie(w, token, s.users.SessionValidity())
	s.logger.Info(r.Context(), "logged in", "id", u.ID)
	s.writeJSON(w, r, http.StatusOK, u)
}

// logout always succeeds: it only expires the cookie.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type photoRequest struct {
	ContentType string `json:"contentType"`
}

func (s *Server) signPhoto(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	err := decodeBody(w, r, &req, func(get func(string) string) error {
		req.ContentType = get("contentType")
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	target, err := s.photos.SignedTarget(r.Context(), req.ContentType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, target)
}

func (s *Server) deletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.photos.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
