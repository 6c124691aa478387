package users

type Repo interface {
	Upsert(member *Member) error
	GetByEmail(email string) (*Member, error)
	GetByID(id string) (*Member, error)
	List() ([]*Member, error)
}
