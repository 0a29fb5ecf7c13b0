package chat

import (
	"sort"
	"strings"

	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/notify"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/stats"
)

type DMSummary struct {
	DMID int    `json:"dmId"`
	Name string `json:"name"`
}

type DMDetails struct {
	Name    string           `json:"name"`
	Members []models.Profile `json:"members"`
}

func nextDMID(d *models.Data) int {
	id := 0
	for _, dm := range d.DMs {
		if dm.DMID > id {
			id = dm.DMID
		}
	}
	return id + 1
}

// CreateDM opens a dm between the caller and uids. Its name is the sorted,
// comma separated handles of every member.
func (s *Service) CreateDM(token string, uids []int) (int, error) {
	var id int
	err := s.store.Update(func(d *models.Data) error {
		creator, err := authenticate(d, token)
		if err != nil {
			return err
		}
		seen := map[int]bool{creator: true}
		for _, uid := range uids {
			if !directory.IsValidUser(d, uid) {
				return errs.BadRequest("a uId in uIds does not refer to a valid user")
			}
		}
		for _, uid := range uids {
			if seen[uid] {
				return errs.BadRequest("there are duplicate uIds in uIds")
			}
			seen[uid] = true
		}
		members := append([]int{creator}, uids...)
		handles := make([]string, 0, len(members))
		for _, uid := range members {
			handles = append(handles, directory.Handle(d, uid))
		}
		sort.Strings(handles)

		id = nextDMID(d)
		owner := creator
		d.DMs = append(d.DMs, models.DM{
			DMID:     id,
			Name:     strings.Join(handles, ", "),
			Owner:    &owner,
			Members:  members,
			Messages: []models.Message{},
		})
		now := s.unix()
		for _, uid := range uids {
			notify.Added(d, models.DMTarget(id), creator, uid)
		}
		for _, uid := range members {
			stats.DMJoined(d, uid, true, now)
		}
		stats.DMsChanged(d, now)
		return nil
	})
	return id, err
}

func (s *Service) ListDMs(token string) ([]DMSummary, error) {
	out := []DMSummary{}
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		for _, dm := range d.DMs {
			if models.ContainsInt(dm.Members, uid) {
				out = append(out, DMSummary{DMID: dm.DMID, Name: dm.Name})
			}
		}
		return nil
	})
	return out, err
}

// RemoveDM deletes a dm along with its messages and any sends still
// scheduled for it. Only the creator may do this.
func (s *Service) RemoveDM(token string, dmID int) error {
	var cancelled []int
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		dm := directory.DM(d, dmID)
		if dm == nil {
			return errs.BadRequest("an invalid dmId")
		}
		if !directory.IsDMOwner(d, uid, dmID) {
			return errs.Forbidden("user is not the DM owner")
		}
		now := s.unix()
		for _, m := range dm.Members {
			stats.DMJoined(d, m, false, now)
		}
		if n := len(dm.Messages); n > 0 {
			stats.MessagesChanged(d, -n, now)
		}
		kept := d.DMs[:0]
		for _, other := range d.DMs {
			if other.DMID != dmID {
				kept = append(kept, other)
			}
		}
		d.DMs = kept
		cancelled = dropPending(d, models.DMTarget(dmID))
		stats.DMsChanged(d, now)
		return nil
	})
	if err != nil {
		return err
	}
	for _, mid := range cancelled {
		s.sched.Cancel(pendingKey(mid))
	}
	if len(cancelled) > 0 {
		logger.Info("dm_removed_pending_cancelled", "dm_id", dmID, "count", len(cancelled))
	}
	return nil
}

func (s *Service) DMDetails(token string, dmID int) (DMDetails, error) {
	var out DMDetails
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		dm := directory.DM(d, dmID)
		if dm == nil {
			return errs.BadRequest("an invalid dmId")
		}
		if !models.ContainsInt(dm.Members, uid) {
			return errs.Forbidden("user is not the DM member")
		}
		out = DMDetails{Name: dm.Name, Members: profiles(d, dm.Members)}
		return nil
	})
	return out, err
}

// LeaveDM removes the caller. When the creator leaves the dm has no owner
// and can no longer be removed.
func (s *Service) LeaveDM(token string, dmID int) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		dm := directory.DM(d, dmID)
		if dm == nil {
			return errs.BadRequest("an invalid dmId")
		}
		if !models.ContainsInt(dm.Members, uid) {
			return errs.Forbidden("user is not the DM member")
		}
		if dm.Owner != nil && *dm.Owner == uid {
			dm.Owner = nil
		}
		dm.Members = models.RemoveInt(dm.Members, uid)
		stats.DMJoined(d, uid, false, s.unix())
		return nil
	})
}

func (s *Service) DMMessages(token string, dmID, start int) (Page, error) {
	var out Page
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		dm := directory.DM(d, dmID)
		if dm == nil {
			return errs.BadRequest("an invalid dmId")
		}
		if !models.ContainsInt(dm.Members, uid) {
			return errs.Forbidden("user is not the DM member")
		}
		out, err = s.page(dm.Messages, uid, start, "start is out of bounds")
		return err
	})
	return out, err
}
