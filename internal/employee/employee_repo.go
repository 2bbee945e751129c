package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindOptions(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	FindByName(ctx context.Context, name string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	UpdateLedger(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) error
	AppendPointEntry(ctx context.Context, entry *PointEntry) error
	FindPointEntries(ctx context.Context, employeeID string) ([]PointEntry, error)
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

// conn menjalankan query di dalam tx milik service kalau ada.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Select("id", "name").
		Order("name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

// FindByIDForUpdate mengunci baris employee sampai tx selesai.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).First(&empl, "name = ?", name).Error
	return &empl, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).
		Model(empl).
		Select("name", "email", "manager_email", "updated_at").
		Updates(empl).Error
}

func (r *repository) UpdateLedger(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).
		Model(empl).
		Select("total_points", "status", "write_up_count", "updated_at").
		Updates(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.conn(ctx).Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AppendPointEntry(ctx context.Context, entry *PointEntry) error {
	return r.conn(ctx).Create(entry).Error
}

func (r *repository) FindPointEntries(ctx context.Context, employeeID string) ([]PointEntry, error) {
	var entries []PointEntry
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
