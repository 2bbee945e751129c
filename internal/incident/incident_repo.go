package incident

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=incident_repo.go -destination=mock/incident_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, inc *Incident) error
	CreateBatch(ctx context.Context, incs []Incident) error
	FindAll(ctx context.Context) ([]Incident, error)
	FindByID(ctx context.Context, id string) (*Incident, error)
	Update(ctx context.Context, inc *Incident) error
	Delete(ctx context.Context, id string) error
	FindEmployeeSummaries(ctx context.Context, ids []uuid.UUID) ([]EmployeeSummary, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, inc *Incident) error {
	return r.conn(ctx).Create(inc).Error
}

func (r *repository) CreateBatch(ctx context.Context, incs []Incident) error {
	if len(incs) == 0 {
		return nil
	}
	return r.conn(ctx).CreateInBatches(incs, 100).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Incident, error) {
	var incs []Incident
	err := r.conn(ctx).
		Order("created_at DESC").
		Find(&incs).Error
	return incs, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Incident, error) {
	var inc Incident
	err := r.conn(ctx).First(&inc, "id = ?", id).Error
	return &inc, err
}

func (r *repository) Update(ctx context.Context, inc *Incident) error {
	return r.conn(ctx).Save(inc).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Incident{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindEmployeeSummaries(ctx context.Context, ids []uuid.UUID) ([]EmployeeSummary, error) {
	var out []EmployeeSummary
	if len(ids) == 0 {
		return out, nil
	}
	err := r.conn(ctx).
		Table("employees").
		Select("id", "name", "total_points", "status").
		Where("id IN ?", ids).
		Scan(&out).Error
	return out, err
}
