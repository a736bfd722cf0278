package staff

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *User) error
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// FindByIDForUpdate locks the user row for the rest of the transaction so
	// two concurrent role changes cannot both read a stale admin count.
	FindByIDForUpdate(ctx context.Context, id string) (*User, error)
	FindActiveByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// CountActiveAdminsForUpdate locks every active admin row while counting.
	// Two demotions running at once both need these locks, so one of them
	// re-counts after the other commits instead of acting on a stale 2.
	CountActiveAdminsForUpdate(ctx context.Context) (int64, error)
	Update(ctx context.Context, u *User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindActiveByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		First(&u, "email = ?", email).Error
	return &u, err
}

func (r *repository) CountActiveAdminsForUpdate(ctx context.Context) (int64, error) {
	// Rows are locked in id order so two concurrent guard checks acquire
	// them in the same sequence instead of deadlocking.
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("role = ?", RoleAdmin).
		Where("is_active = ?", true).
		Order("id").
		Pluck("id", &ids).Error
	return int64(len(ids)), err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
