package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormReleaseReportRepository implements release.ReportRepository using GORM
type GormReleaseReportRepository struct {
	db *gorm.DB
}

// NewGormReleaseReportRepository creates a new GormReleaseReportRepository
func NewGormReleaseReportRepository(db *gorm.DB) *GormReleaseReportRepository {
	return &GormReleaseReportRepository{db: db}
}

// Create persists a new report, assigning its SRO number. The unique
// index on request_id turns a concurrent second generation for the
// same request into ErrAlreadyExists.
func (r *GormReleaseReportRepository) Create(ctx context.Context, report *release.ReleaseReport) error {
	if report.RequestID != nil {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&release.ReleaseReport{}).
			Where("request_id = ?", *report.RequestID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrAlreadyExists
		}
	}

	sroNo, err := r.GenerateSRONumber(ctx)
	if err != nil {
		return err
	}
	report.SRONo = sroNo

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GenerateSRONumber generates the next supply release order number.
// Format: SRO-YYYY-NNNNN (e.g. SRO-2026-00001), sequence resets yearly.
func (r *GormReleaseReportRepository) GenerateSRONumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("SRO-%d-", year)

	var last release.ReleaseReport
	err := r.db.WithContext(ctx).
		Model(&release.ReleaseReport{}).
		Where("sro_no LIKE ?", prefix+"%").
		Order("sro_no DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.SRONo != "" {
		parts := strings.Split(last.SRONo, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// FindByID finds a report by ID, lines in line order
func (r *GormReleaseReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*release.ReleaseReport, error) {
	var report release.ReleaseReport
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindByRequestID finds the report generated for a release request
func (r *GormReleaseReportRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*release.ReleaseReport, error) {
	var report release.ReleaseReport
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		First(&report, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindAll returns reports matching the filter, newest first
func (r *GormReleaseReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*release.ReleaseReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&release.ReleaseReport{})

	if dept, ok := filter.Filters["department_office"]; ok {
		query = query.Where("department_office = ?", dept)
	}
	if filter.Search != "" {
		query = query.Where("sro_no ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var reports []*release.ReleaseReport
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// isUniqueViolation reports whether the error is a unique constraint
// violation, covering both postgres and the sqlite test driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Ensure GormReleaseReportRepository implements release.ReportRepository
var _ release.ReportRepository = (*GormReleaseReportRepository)(nil)
