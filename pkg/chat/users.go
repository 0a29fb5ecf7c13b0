package chat

import (
	"regexp"

	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
)

var handlePattern = regexp.MustCompile(`^\w+$`)

// Profile returns any user's profile, removed users and the bot included.
func (s *Service) Profile(token string, uid int) (models.Profile, error) {
	var out models.Profile
	err := s.store.View(func(d *models.Data) error {
		if _, ok := directory.UIDFromToken(d, token); !ok {
			return errs.Forbidden("Unauthorized user")
		}
		if uid == models.BotUID {
			bot := models.BotUser()
			bot.ProfileImgURL = s.defaultImageURL()
			out = bot.Profile()
			return nil
		}
		u := directory.User(d, uid)
		if u == nil {
			return errs.BadRequest("uId does not refer to a valid user")
		}
		out = u.Profile()
		return nil
	})
	return out, err
}

// AllUsers lists every active user.
func (s *Service) AllUsers(token string) ([]models.Profile, error) {
	out := []models.Profile{}
	err := s.store.View(func(d *models.Data) error {
		if _, err := authenticate(d, token); err != nil {
			return err
		}
		for i := range d.Users {
			if !d.Users[i].Removed {
				out = append(out, d.Users[i].Profile())
			}
		}
		return nil
	})
	return out, err
}

func (s *Service) SetName(token, nameFirst, nameLast string) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if !validName(nameFirst) {
			return errs.BadRequest("Invalid first name")
		}
		if !validName(nameLast) {
			return errs.BadRequest("Invalid last name")
		}
		u := directory.User(d, uid)
		u.NameFirst, u.NameLast = nameFirst, nameLast
		return nil
	})
}

func (s *Service) SetEmail(token, email string) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if !validEmail(email) {
			return errs.BadRequest("Invalid email")
		}
		u := directory.User(d, uid)
		if u.Email == email {
			return nil
		}
		if emailTaken(d, email) {
			return errs.BadRequest("Email already in use")
		}
		u.Email = email
		return nil
	})
}

func (s *Service) SetHandle(token, handle string) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if n := len(handle); n < 3 || n > maxHandleLength || !handlePattern.MatchString(handle) {
			return errs.BadRequest("Invalid handle")
		}
		u := directory.User(d, uid)
		if u.Handle == handle {
			return nil
		}
		if handleTaken(d, handle) {
			return errs.BadRequest("Handle already in use")
		}
		u.Handle = handle
		return nil
	})
}
