package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	AuthorID  string    `json:"authorId"`
	GroupIDs  []string  `json:"groupIds,omitempty"` // empty means the whole church
	CreatedAt time.Time `json:"createdAt"`
}

type Devotional struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Scripture string    `json:"scripture"`
	Body      string    `json:"body"`
	Date      time.Time `json:"date"`
}

type PrayerRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	RequesterID string    `json:"requesterId"`
	Private     bool      `json:"private"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Offering struct {
	ID         string    `json:"id"`
	Amount     float64   `json:"amount"`
	Category   string    `json:"category"`
	RecordedBy string    `json:"recordedBy"`
	ServiceAt  time.Time `json:"serviceAt"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	LeaderID  string   `json:"leaderId"`
	MemberIDs []string `json:"memberIds"`
}

// content is the in-memory church data served by the resolvers.
type content struct {
	mu             sync.RWMutex
	announcements  []Announcement
	devotionals    []Devotional
	prayerRequests []PrayerRequest
	offerings      []Offering
	groups         []Group
}

func newContent() *content {
	now := time.Now()
	return &content{
		announcements: []Announcement{
			{ID: "ann-1", Title: "Harvest Thanksgiving", Body: "Bring your harvest offerings on Sunday.", AuthorID: "member-pastor", CreatedAt: now},
		},
		devotionals: []Devotional{
			{ID: "dev-1", Title: "Be Still", Scripture: "Psalm 46:10", Body: "Rest in His presence today.", Date: now},
		},
		groups: []Group{
			{ID: "choir", Name: "Choir", LeaderID: "member-secretary", MemberIDs: []string{"member-1"}},
			{ID: "outreach", Name: "Outreach", LeaderID: "member-evangelist", MemberIDs: []string{"member-evangelist"}},
		},
	}
}

// listAnnouncements returns church wide announcements plus those addressed
// to a group memberID leads or belongs to. all returns every announcement.
func (c *content) listAnnouncements(memberID string, all bool) []Announcement {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Announcement, 0, len(c.announcements))
	for _, a := range c.announcements {
		if all || len(a.GroupIDs) == 0 || c.inAnyGroup(memberID, a.GroupIDs) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (c *content) addAnnouncement(a Announcement) Announcement {
	c.mu.Lock()
	defer c.mu.Unlock()
	a.ID = uuid.NewString()
	c.announcements = append(c.announcements, a)
	return a
}

func (c *content) listDevotionals() []Devotional {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Devotional(nil), c.devotionals...)
}

// listPrayerRequests hides other members' private requests unless
// includePrivate is set.
func (c *content) listPrayerRequests(memberID string, includePrivate bool) []PrayerRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PrayerRequest, 0, len(c.prayerRequests))
	for _, pr := range c.prayerRequests {
		if pr.Private && !includePrivate && pr.RequesterID != memberID {
			continue
		}
		out = append(out, pr)
	}
	return out
}

func (c *content) addPrayerRequest(pr PrayerRequest) PrayerRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	pr.ID = uuid.NewString()
	c.prayerRequests = append(c.prayerRequests, pr)
	return pr
}

func (c *content) listOfferings() ([]Offering, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, o := range c.offerings {
		total += o.Amount
	}
	return append([]Offering(nil), c.offerings...), total
}

func (c *content) addOffering(o Offering) Offering {
	c.mu.Lock()
	defer c.mu.Unlock()
	o.ID = uuid.NewString()
	c.offerings = append(c.offerings, o)
	return o
}

func (c *content) listGroups(memberID string, all bool) []Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Group, 0, len(c.groups))
	for _, g := range c.groups {
		if all || g.LeaderID == memberID || contains(g.MemberIDs, memberID) {
			out = append(out, g)
		}
	}
	return out
}

func (c *content) inAnyGroup(memberID string, groupIDs []string) bool {
	for _, g := range c.groups {
		if contains(groupIDs, g.ID) && (g.LeaderID == memberID || contains(g.MemberIDs, memberID)) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
