package repository

import (
	"errors"

	"github.com/logiroute/internal/models"

	"gorm.io/gorm"
)

// PersonnelRepository 人员档案数据访问接口
type PersonnelRepository interface {
	GetByID(id uint) (*models.Personnel, error)
	GetByUserID(userID uint) (*models.Personnel, error)
	Create(personnel *models.Personnel) error
	Update(personnel *models.Personnel) error
	Delete(id uint) error
	List(filter PersonnelListFilter) ([]models.Personnel, int64, error)
}

// GormPersonnelRepository GORM 实现
type GormPersonnelRepository struct {
	db *gorm.DB
}

// NewPersonnelRepository 创建人员仓库
func NewPersonnelRepository(db *gorm.DB) *GormPersonnelRepository {
	return &GormPersonnelRepository{db: db}
}

// GetByID 根据 ID 获取人员档案（含关联用户）
func (r *GormPersonnelRepository) GetByID(id uint) (*models.Personnel, error) {
	var personnel models.Personnel
	if err := r.db.Preload("User").First(&personnel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &personnel, nil
}

// GetByUserID 根据用户 ID 获取人员档案
func (r *GormPersonnelRepository) GetByUserID(userID uint) (*models.Personnel, error) {
	var personnel models.Personnel
	if err := r.db.Where("user_id = ?", userID).First(&personnel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &personnel, nil
}

// Create 创建人员档案
func (r *GormPersonnelRepository) Create(personnel *models.Personnel) error {
	return r.db.Omit("User").Create(personnel).Error
}

// Update 更新人员档案
func (r *GormPersonnelRepository) Update(personnel *models.Personnel) error {
	return r.db.Omit("User").Save(personnel).Error
}

// Delete 删除人员档案
func (r *GormPersonnelRepository) Delete(id uint) error {
	return r.db.Delete(&models.Personnel{}, id).Error
}

// List 人员列表
func (r *GormPersonnelRepository) List(filter PersonnelListFilter) ([]models.Personnel, int64, error) {
	query := r.db.Model(&models.Personnel{})
	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Scopes(paginate(filter.Page, filter.PageSize))

	var records []models.Personnel
	if err := query.Preload("User").Order("id ASC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
