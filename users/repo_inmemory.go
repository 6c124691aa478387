package users

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-church-gql/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	members  map[string]*Member
	emailIDs map[string]string // email to member id
	lock     sync.RWMutex
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		members:  make(map[string]*Member),
		emailIDs: make(map[string]string),
	}
}

func (r *InMemoryRepo) Upsert(member *Member) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	r.members[member.ID] = member
	r.emailIDs[strings.ToLower(member.Email)] = member.ID
	return nil
}

func (r *InMemoryRepo) GetByEmail(email string) (*Member, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.emailIDs[strings.ToLower(email)]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return r.members[id], nil
}

func (r *InMemoryRepo) GetByID(id string) (*Member, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return m, nil
}

func (r *InMemoryRepo) List() ([]*Member, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	members := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Email < members[j].Email
	})
	return members, nil
}
