// Package populate expands reference columns into the records they point at.
//
// Every function returns plain JSON objects. A projection keeps `_id` plus the listed
// fields; a reference whose record no longer exists resolves to null.
package populate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

// Object is a record rendered as a JSON object.
type Object = map[string]any

// Resolver loads referenced records from the store.
type Resolver struct {
	store *store.Store
}

func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// Project renders rec as an Object holding `_id` and fields. With no fields every field is kept.
func Project(rec any, fields ...string) (Object, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if len(fields) == 0 {
		return obj, nil
	}

	out := Object{"_id": obj["_id"]}
	for _, f := range fields {
		if v, ok := obj[f]; ok {
			out[f] = v
		}
	}
	return out, nil
}

// lookup projects recs[id], or yields nil when id is dangling.
func lookup[T any](recs map[string]*T, id string, fields ...string) (any, error) {
	rec, ok := recs[id]
	if !ok {
		return nil, nil
	}
	return Project(rec, fields...)
}

// OrganizationDetail attaches the organization's memberships, each with its user's name and image.
func (r *Resolver) OrganizationDetail(ctx context.Context, org *models.Organization) (Object, error) {
	out, err := Project(org)
	if err != nil {
		return nil, err
	}

	memberships, err := r.store.Memberships.List(ctx, store.Filter{"organization": org.ID})
	if err != nil {
		return nil, err
	}
	users, err := r.store.Users.GetMany(ctx, membershipUserIDs(memberships))
	if err != nil {
		return nil, err
	}

	expanded := make([]Object, 0, len(memberships))
	for i := range memberships {
		m, err := Project(&memberships[i])
		if err != nil {
			return nil, err
		}
		if m["user"], err = lookup(users, memberships[i].UserID, "name", "imageUrl"); err != nil {
			return nil, err
		}
		expanded = append(expanded, m)
	}
	out["memberships"] = expanded
	return out, nil
}

// Memberships expands both references of each membership to their title/name and image.
func (r *Resolver) Memberships(ctx context.Context, memberships []models.Membership) ([]Object, error) {
	orgIDs := make([]string, 0, len(memberships))
	for _, m := range memberships {
		orgIDs = append(orgIDs, m.OrganizationID)
	}
	orgs, err := r.store.Organizations.GetMany(ctx, orgIDs)
	if err != nil {
		return nil, err
	}
	users, err := r.store.Users.GetMany(ctx, membershipUserIDs(memberships))
	if err != nil {
		return nil, err
	}

	out := make([]Object, 0, len(memberships))
	for i := range memberships {
		m, err := Project(&memberships[i])
		if err != nil {
			return nil, err
		}
		if m["organization"], err = lookup(orgs, memberships[i].OrganizationID, "title", "imageUrl"); err != nil {
			return nil, err
		}
		if m["user"], err = lookup(users, memberships[i].UserID, "name", "imageUrl"); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Polls replaces each poll's organization with its title.
func (r *Resolver) Polls(ctx context.Context, polls []models.Poll) ([]Object, error) {
	orgIDs := make([]string, 0, len(polls))
	for _, p := range polls {
		orgIDs = append(orgIDs, p.OrganizationID)
	}
	orgs, err := r.store.Organizations.GetMany(ctx, orgIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Object, 0, len(polls))
	for i := range polls {
		p, err := Project(&polls[i])
		if err != nil {
			return nil, err
		}
		if p["organization"], err = lookup(orgs, polls[i].OrganizationID, "title"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// PollDetail embeds the full organization and the number of votes cast on the poll.
func (r *Resolver) PollDetail(ctx context.Context, poll *models.Poll) (Object, error) {
	out, err := Project(poll)
	if err != nil {
		return nil, err
	}

	orgs, err := r.store.Organizations.GetMany(ctx, []string{poll.OrganizationID})
	if err != nil {
		return nil, err
	}
	if out["organization"], err = lookup(orgs, poll.OrganizationID); err != nil {
		return nil, err
	}

	votes, err := r.store.Votes.CountByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	out["votes"] = votes
	return out, nil
}

// Votes embeds the full poll of each vote.
func (r *Resolver) Votes(ctx context.Context, votes []models.Vote) ([]Object, error) {
	pollIDs := make([]string, 0, len(votes))
	for _, v := range votes {
		pollIDs = append(pollIDs, v.PollID)
	}
	polls, err := r.store.Polls.GetMany(ctx, pollIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Object, 0, len(votes))
	for i := range votes {
		v, err := Project(&votes[i])
		if err != nil {
			return nil, err
		}
		if v["poll"], err = lookup(polls, votes[i].PollID); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func membershipUserIDs(memberships []models.Membership) []string {
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	return ids
}
