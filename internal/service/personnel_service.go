package service

import (
	"strings"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/repository"
)

// PersonnelService 人员档案管理
type PersonnelService struct {
	personnelRepo repository.PersonnelRepository
	userRepo      repository.UserRepository
	guard         *authz.Guard
}

// NewPersonnelService 创建人员服务
func NewPersonnelService(personnelRepo repository.PersonnelRepository, userRepo repository.UserRepository, guard *authz.Guard) *PersonnelService {
	return &PersonnelService{
		personnelRepo: personnelRepo,
		userRepo:      userRepo,
		guard:         guard,
	}
}

// CreatePersonnelInput 创建人员档案输入
type CreatePersonnelInput struct {
	UserID          uint
	Position        string
	LicenseNumber   string
	VehicleAssigned string
	IsActive        *bool
	HireDate        *time.Time
}

// PersonnelPatch 人员档案局部更新
type PersonnelPatch struct {
	UserID          *uint
	Position        *string
	LicenseNumber   *string
	VehicleAssigned *string
	IsActive        *bool
	HireDate        *time.Time
}

// ListPersonnel 人员列表
func (s *PersonnelService) ListPersonnel(caller authz.Caller, filter repository.PersonnelListFilter) ([]models.Personnel, int64, error) {
	if err := s.guard.Authorize(caller, authz.ResourcePersonnel, authz.ActionList, nil).Err(); err != nil {
		return nil, 0, err
	}
	filter.Position = strings.ToLower(strings.TrimSpace(filter.Position))
	if filter.Position != "" {
		v := &ValidationError{}
		checkEnum(v, "position", filter.Position, personnelPositions...)
		if err := v.Err(); err != nil {
			return nil, 0, err
		}
	}
	return s.personnelRepo.List(filter)
}

// GetPersonnel 获取人员档案
func (s *PersonnelService) GetPersonnel(caller authz.Caller, id uint) (*models.Personnel, error) {
	return s.load(caller, id, authz.ActionRead)
}

// CreatePersonnel 创建人员档案，关联用户必须为 personnel 角色且尚无档案
func (s *PersonnelService) CreatePersonnel(caller authz.Caller, input CreatePersonnelInput) (*models.Personnel, error) {
	if err := s.guard.Authorize(caller, authz.ResourcePersonnel, authz.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	v := &ValidationError{}
	if input.UserID == 0 {
		v.Add("user_id", ReasonRequired)
	}
	position := checkEnum(v, "position", input.Position, personnelPositions...)
	license := strings.TrimSpace(input.LicenseNumber)
	checkMaxLength(v, "license_number", license, 64)
	vehicleAssigned := strings.TrimSpace(input.VehicleAssigned)
	checkMaxLength(v, "vehicle_assigned", vehicleAssigned, 64)
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role != constants.RolePersonnel {
		return nil, newFieldError("user_id", ReasonInvalid)
	}
	exist, err := s.personnelRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrPersonnelExists
	}

	now := time.Now()
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	hireDate := now
	if input.HireDate != nil && !input.HireDate.IsZero() {
		hireDate = *input.HireDate
	}
	personnel := &models.Personnel{
		UserID:          user.ID,
		Position:        position,
		LicenseNumber:   license,
		VehicleAssigned: vehicleAssigned,
		IsActive:        isActive,
		HireDate:        hireDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.personnelRepo.Create(personnel); err != nil {
		return nil, err
	}
	personnel.User = user
	logger.Infow("personnel_created", "personnel_id", personnel.ID, "user_id", user.ID, "position", position)
	return personnel, nil
}

// UpdatePersonnel 更新人员档案
func (s *PersonnelService) UpdatePersonnel(caller authz.Caller, id uint, patch PersonnelPatch) (*models.Personnel, error) {
	personnel, err := s.load(caller, id, authz.ActionUpdate)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	if patch.UserID != nil && *patch.UserID != personnel.UserID {
		v.Add("user_id", ReasonImmutable)
	}
	if patch.Position != nil {
		personnel.Position = checkEnum(v, "position", *patch.Position, personnelPositions...)
	}
	if patch.LicenseNumber != nil {
		personnel.LicenseNumber = strings.TrimSpace(*patch.LicenseNumber)
		checkMaxLength(v, "license_number", personnel.LicenseNumber, 64)
	}
	if patch.VehicleAssigned != nil {
		personnel.VehicleAssigned = strings.TrimSpace(*patch.VehicleAssigned)
		checkMaxLength(v, "vehicle_assigned", personnel.VehicleAssigned, 64)
	}
	if patch.IsActive != nil {
		personnel.IsActive = *patch.IsActive
	}
	if patch.HireDate != nil {
		if patch.HireDate.IsZero() {
			v.Add("hire_date", ReasonInvalid)
		} else {
			personnel.HireDate = *patch.HireDate
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	personnel.UpdatedAt = time.Now()
	if err := s.personnelRepo.Update(personnel); err != nil {
		return nil, err
	}
	logger.Infow("personnel_updated", "personnel_id", personnel.ID, "updated_by", caller.UserID)
	return personnel, nil
}

// DeletePersonnel 删除人员档案（不影响关联用户）
func (s *PersonnelService) DeletePersonnel(caller authz.Caller, id uint) error {
	personnel, err := s.load(caller, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.personnelRepo.Delete(personnel.ID); err != nil {
		return err
	}
	logger.Infow("personnel_deleted", "personnel_id", personnel.ID, "deleted_by", caller.UserID)
	return nil
}

func (s *PersonnelService) load(caller authz.Caller, id uint, action string) (*models.Personnel, error) {
	if err := s.guard.Authorize(caller, authz.ResourcePersonnel, action, nil).Err(); err != nil {
		return nil, err
	}
	personnel, err := s.personnelRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if personnel == nil {
		return nil, ErrPersonnelNotFound
	}
	return personnel, nil
}
