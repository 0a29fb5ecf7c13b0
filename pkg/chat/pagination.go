package chat

import (
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
)

// Page is one window of a message log, newest first. End is -1 once the
// window reaches the newest message.
type Page struct {
	Messages []models.MessageView `json:"messages"`
	Start    int                  `json:"start"`
	End      int                  `json:"end"`
}

// page returns up to PageSize messages starting start places after the oldest
// one. Messages whose send time is still in the future are left out.
func (s *Service) page(log []models.Message, uid, start int, outOfRange string) (Page, error) {
	now := s.unix()
	visible := make([]*models.Message, 0, len(log))
	for i := range log {
		if log[i].TimeSent <= now {
			visible = append(visible, &log[i])
		}
	}
	if start < 0 || start > len(visible) {
		return Page{}, errs.BadRequest("%s", outOfRange)
	}
	end := start + PageSize
	if end >= len(visible) {
		end = len(visible)
	}
	out := Page{Messages: make([]models.MessageView, 0, end-start), Start: start, End: end}
	for i := end - 1; i >= start; i-- {
		out.Messages = append(out.Messages, visible[i].ViewFor(uid))
	}
	if end == len(visible) {
		out.End = -1
	}
	return out, nil
}
