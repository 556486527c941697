package postgres

import (
	"context"

	"github.com/lzytourist/digital-classroom/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB

	user      repositories.UserRepository
	token     repositories.TokenRepository
	resetCode repositories.ResetCodeRepository
	profile   repositories.ProfileRepository
	classroom repositories.ClassroomRepository
	audit     repositories.AuditRepository
}

// NewRepository creates the aggregate gorm-backed repository.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:        db,
		user:      NewUserPostgreSQL(db),
		token:     NewTokenPostgreSQL(db),
		resetCode: NewResetCodePostgreSQL(db),
		profile:   NewProfilePostgreSQL(db),
		classroom: NewClassroomPostgreSQL(db),
		audit:     NewAuditPostgreSQL(db),
	}
}

func (r *gormRepository) User() repositories.UserRepository           { return r.user }
func (r *gormRepository) Token() repositories.TokenRepository         { return r.token }
func (r *gormRepository) ResetCode() repositories.ResetCodeRepository { return r.resetCode }
func (r *gormRepository) Profile() repositories.ProfileRepository     { return r.profile }
func (r *gormRepository) Classroom() repositories.ClassroomRepository { return r.classroom }
func (r *gormRepository) Audit() repositories.AuditRepository         { return r.audit }

func (r *gormRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *gormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
