package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/logiroute/internal/authz"
	"github.com/logiroute/internal/cache"
	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/models"
	"github.com/logiroute/internal/queue"
	"github.com/logiroute/internal/repository"

	"gorm.io/gorm"
)

var trackingNumberPattern = regexp.MustCompile(`^[A-Za-z0-9\-]{4,64}$`)

// ShipmentService 运单生命周期服务
type ShipmentService struct {
	cfg          *config.Config
	shipmentRepo repository.ShipmentRepository
	eventRepo    repository.ShipmentEventRepository
	userRepo     repository.UserRepository
	guard        *authz.Guard
	queueClient  *queue.Client
}

// NewShipmentService 创建运单服务
func NewShipmentService(
	cfg *config.Config,
	shipmentRepo repository.ShipmentRepository,
	eventRepo repository.ShipmentEventRepository,
	userRepo repository.UserRepository,
	guard *authz.Guard,
	queueClient *queue.Client,
) *ShipmentService {
	return &ShipmentService{
		cfg:          cfg,
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		guard:        guard,
		queueClient:  queueClient,
	}
}

// CreateShipmentInput 创建运单输入
// ClientID 仅管理员可指定，客户下单时强制为本人
type CreateShipmentInput struct {
	TrackingNumber   string
	ClientID         uint
	AssignedDriverID *uint
	PickupAddress    string
	DeliveryAddress  string
	RecipientName    string
	RecipientPhone   string
	PaymentMethod    string
	PaymentStatus    string
	Amount           *models.Money
	Weight           *models.Money
	Dimensions       string
	Notes            string
}

// ShipmentPatch 运单局部更新，nil 字段表示不修改
type ShipmentPatch struct {
	TrackingNumber   *string
	ClientID         *uint
	AssignedDriverID *uint
	PickupAddress    *string
	DeliveryAddress  *string
	RecipientName    *string
	RecipientPhone   *string
	Status           *string
	PaymentMethod    *string
	PaymentStatus    *string
	Amount           *models.Money
	Weight           *models.Money
	Dimensions       *string
	Notes            *string
}

// StatusOnly 是否只修改状态
func (p ShipmentPatch) StatusOnly() bool {
	return p.Status != nil &&
		p.TrackingNumber == nil &&
		p.ClientID == nil &&
		p.AssignedDriverID == nil &&
		p.PickupAddress == nil &&
		p.DeliveryAddress == nil &&
		p.RecipientName == nil &&
		p.RecipientPhone == nil &&
		p.PaymentMethod == nil &&
		p.PaymentStatus == nil &&
		p.Amount == nil &&
		p.Weight == nil &&
		p.Dimensions == nil &&
		p.Notes == nil
}

// action 按补丁内容确定授权动作：仅含状态为 UPDATE_STATUS，其余一律为 UPDATE
func (p ShipmentPatch) action() string {
	if p.StatusOnly() {
		return authz.ActionUpdateStatus
	}
	return authz.ActionUpdate
}

// ShipmentListResult 运单列表结果
type ShipmentListResult struct {
	Items []models.Shipment
	Total int64
}

// CreateShipment 创建运单并在同一事务中追加 created 事件
func (s *ShipmentService) CreateShipment(caller authz.Caller, input CreateShipmentInput) (*models.Shipment, error) {
	if err := s.guard.Authorize(caller, authz.ResourceShipments, authz.ActionCreate, nil).Err(); err != nil {
		return nil, err
	}

	v := &ValidationError{}
	pickup := requireText(v, "pickup_address", input.PickupAddress)
	delivery := requireText(v, "delivery_address", input.DeliveryAddress)
	recipientName := requireText(v, "recipient_name", input.RecipientName)
	checkMaxLength(v, "recipient_name", recipientName, 120)
	recipientPhone := checkPhone(v, "recipient_phone", input.RecipientPhone, true)
	paymentMethod := checkEnum(v, "payment_method", input.PaymentMethod, paymentMethods...)
	paymentStatus := constants.PaymentStatusPending
	if strings.TrimSpace(input.PaymentStatus) != "" {
		paymentStatus = checkEnum(v, "payment_status", input.PaymentStatus, paymentStatuses...)
	}
	if input.Amount == nil {
		v.Add("amount", ReasonRequired)
	} else if input.Amount.IsNegative() {
		v.Add("amount", ReasonNegative)
	}
	if input.Weight != nil && input.Weight.IsNegative() {
		v.Add("weight", ReasonNegative)
	}
	dimensions := strings.TrimSpace(input.Dimensions)
	checkMaxLength(v, "dimensions", dimensions, 120)

	clientID := input.ClientID
	driverID := input.AssignedDriverID
	trackingNumber := strings.TrimSpace(input.TrackingNumber)
	if caller.Role == constants.RoleClient {
		clientID = caller.UserID
		driverID = nil
		trackingNumber = ""
	}
	if clientID == 0 {
		v.Add("client_id", ReasonRequired)
	}
	if trackingNumber != "" && !trackingNumberPattern.MatchString(trackingNumber) {
		v.Add("tracking_number", ReasonInvalid)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if caller.Role != constants.RoleClient {
		if err := s.checkUserRole(clientID, constants.RoleClient, "client_id"); err != nil {
			return nil, err
		}
	}
	if driverID != nil {
		if err := s.checkUserRole(*driverID, constants.RolePersonnel, "assigned_driver_id"); err != nil {
			return nil, err
		}
	}

	if trackingNumber == "" {
		generated, err := s.generateTrackingNumber()
		if err != nil {
			return nil, err
		}
		trackingNumber = generated
	}
	exists, err := s.shipmentRepo.TrackingNumberExists(trackingNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrTrackingNumberExists
	}

	now := time.Now()
	shipment := &models.Shipment{
		TrackingNumber:   trackingNumber,
		ClientID:         clientID,
		AssignedDriverID: driverID,
		PickupAddress:    pickup,
		DeliveryAddress:  delivery,
		RecipientName:    recipientName,
		RecipientPhone:   recipientPhone,
		Status:           constants.ShipmentStatusPending,
		PaymentMethod:    paymentMethod,
		PaymentStatus:    paymentStatus,
		Amount:           *input.Amount,
		Weight:           input.Weight,
		Dimensions:       dimensions,
		Notes:            strings.TrimSpace(input.Notes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	createdBy := caller.UserID
	err = s.shipmentRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.shipmentRepo.WithTx(tx).Create(shipment); err != nil {
			return err
		}
		return s.eventRepo.WithTx(tx).Create(&models.ShipmentEvent{
			ShipmentID:  shipment.ID,
			EventType:   constants.ShipmentEventCreated,
			Description: "Shipment created",
			Location:    shipment.PickupAddress,
			CreatedBy:   &createdBy,
			CreatedAt:   shipment.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Infow("shipment_created",
		"shipment_id", shipment.ID,
		"tracking_number", shipment.TrackingNumber,
		"client_id", shipment.ClientID,
		"created_by", caller.UserID,
	)
	return shipment, nil
}

// GetShipment 获取单个运单
func (s *ShipmentService) GetShipment(caller authz.Caller, id uint) (*models.Shipment, error) {
	return s.loadAuthorized(caller, id, authz.ActionRead)
}

// ListShipments 运单列表，按调用方角色限定范围
func (s *ShipmentService) ListShipments(caller authz.Caller, filter repository.ShipmentListFilter) (*ShipmentListResult, error) {
	scope, err := s.guard.ShipmentScope(caller)
	if err != nil {
		return nil, err
	}
	filter.ClientID = scope.ClientID
	filter.DriverID = scope.DriverID
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !isShipmentStatus(filter.Status) {
		return nil, newFieldError("status", ReasonInvalid)
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)

	items, total, err := s.shipmentRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return &ShipmentListResult{Items: items, Total: total}, nil
}

// ListShipmentEvents 运单事件（按发生时间升序）
func (s *ShipmentService) ListShipmentEvents(caller authz.Caller, id uint) ([]models.ShipmentEvent, error) {
	shipment, err := s.loadAuthorized(caller, id, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.ListByShipmentID(shipment.ID)
}

// UpdateShipment 合并补丁，含状态时在同一事务中追加状态事件
// 补丁整体授权：人员提交状态以外的任何字段都会被整体拒绝
func (s *ShipmentService) UpdateShipment(ctx context.Context, caller authz.Caller, id uint, patch ShipmentPatch) (*models.Shipment, error) {
	action := patch.action()
	shipment, err := s.loadAuthorized(caller, id, action)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	if patch.TrackingNumber != nil {
		v.Add("tracking_number", ReasonImmutable)
	}
	if patch.ClientID != nil {
		v.Add("client_id", ReasonImmutable)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	updated := *shipment
	applyShipmentPatch(v, &updated, patch)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if patch.AssignedDriverID != nil {
		if err := s.checkUserRole(*patch.AssignedDriverID, constants.RolePersonnel, "assigned_driver_id"); err != nil {
			return nil, err
		}
	}

	statusChanged := patch.Status != nil
	now := time.Now()
	if statusChanged {
		if err := validateShipmentTransition(shipment.Status, updated.Status); err != nil {
			return nil, err
		}
		if updated.Status == constants.ShipmentStatusAssigned && updated.AssignedDriverID == nil {
			return nil, newFieldError("assigned_driver_id", ReasonRequired)
		}
		if updated.Status == constants.ShipmentStatusDelivered {
			updated.DeliveredAt = &now
		}
	}
	updated.UpdatedAt = now

	changedBy := caller.UserID
	err = s.shipmentRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.shipmentRepo.WithTx(tx).Update(&updated); err != nil {
			return err
		}
		if !statusChanged {
			return nil
		}
		return s.eventRepo.WithTx(tx).Create(&models.ShipmentEvent{
			ShipmentID:  updated.ID,
			EventType:   updated.Status,
			Description: statusEventDescription(updated.Status),
			CreatedBy:   &changedBy,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.invalidateTracking(ctx, updated.TrackingNumber)
	if statusChanged {
		logger.Infow("shipment_status_changed",
			"shipment_id", updated.ID,
			"tracking_number", updated.TrackingNumber,
			"from", shipment.Status,
			"to", updated.Status,
			"changed_by", caller.UserID,
		)
		s.notifyStatus(updated, caller.UserID)
	}
	return &updated, nil
}

// DeleteShipment 删除运单（仅管理员），事件保留
func (s *ShipmentService) DeleteShipment(ctx context.Context, caller authz.Caller, id uint) error {
	if err := s.guard.AuthorizeRole(caller, authz.ResourceShipments, authz.ActionDelete).Err(); err != nil {
		return err
	}
	shipment, err := s.shipmentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if shipment == nil {
		return ErrShipmentNotFound
	}
	if err := s.shipmentRepo.Delete(shipment.ID); err != nil {
		return err
	}
	s.invalidateTracking(ctx, shipment.TrackingNumber)
	logger.Infow("shipment_deleted",
		"shipment_id", shipment.ID,
		"tracking_number", shipment.TrackingNumber,
		"deleted_by", caller.UserID,
	)
	return nil
}

// loadAuthorized 先按角色预判，再加载记录并校验归属
func (s *ShipmentService) loadAuthorized(caller authz.Caller, id uint, action string) (*models.Shipment, error) {
	if err := s.guard.AuthorizeRole(caller, authz.ResourceShipments, action).Err(); err != nil {
		return nil, err
	}
	shipment, err := s.shipmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, ErrShipmentNotFound
	}
	target := &authz.ShipmentTarget{
		ClientID:         shipment.ClientID,
		AssignedDriverID: shipment.AssignedDriverID,
	}
	if err := s.guard.Authorize(caller, authz.ResourceShipments, action, target).Err(); err != nil {
		return nil, err
	}
	return shipment, nil
}

func applyShipmentPatch(v *ValidationError, shipment *models.Shipment, patch ShipmentPatch) {
	if patch.AssignedDriverID != nil {
		driverID := *patch.AssignedDriverID
		shipment.AssignedDriverID = &driverID
	}
	if patch.PickupAddress != nil {
		shipment.PickupAddress = requireText(v, "pickup_address", *patch.PickupAddress)
	}
	if patch.DeliveryAddress != nil {
		shipment.DeliveryAddress = requireText(v, "delivery_address", *patch.DeliveryAddress)
	}
	if patch.RecipientName != nil {
		shipment.RecipientName = requireText(v, "recipient_name", *patch.RecipientName)
		checkMaxLength(v, "recipient_name", shipment.RecipientName, 120)
	}
	if patch.RecipientPhone != nil {
		shipment.RecipientPhone = checkPhone(v, "recipient_phone", *patch.RecipientPhone, true)
	}
	if patch.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*patch.Status))
		if status == "" {
			v.Add("status", ReasonRequired)
		} else if !isShipmentStatus(status) {
			v.Add("status", ReasonInvalid)
		}
		shipment.Status = status
	}
	if patch.PaymentMethod != nil {
		shipment.PaymentMethod = checkEnum(v, "payment_method", *patch.PaymentMethod, paymentMethods...)
	}
	if patch.PaymentStatus != nil {
		shipment.PaymentStatus = checkEnum(v, "payment_status", *patch.PaymentStatus, paymentStatuses...)
	}
	if patch.Amount != nil {
		if patch.Amount.IsNegative() {
			v.Add("amount", ReasonNegative)
		}
		shipment.Amount = *patch.Amount
	}
	if patch.Weight != nil {
		if patch.Weight.IsNegative() {
			v.Add("weight", ReasonNegative)
		}
		weight := *patch.Weight
		shipment.Weight = &weight
	}
	if patch.Dimensions != nil {
		shipment.Dimensions = strings.TrimSpace(*patch.Dimensions)
		checkMaxLength(v, "dimensions", shipment.Dimensions, 120)
	}
	if patch.Notes != nil {
		shipment.Notes = strings.TrimSpace(*patch.Notes)
	}
}

// checkUserRole 校验引用的用户存在且角色匹配，否则按字段校验失败处理
func (s *ShipmentService) checkUserRole(userID uint, role, field string) error {
	if userID == 0 {
		return newFieldError(field, ReasonRequired)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.Role != role {
		return newFieldError(field, ReasonInvalid)
	}
	return nil
}

// generateTrackingNumber 生成 {前缀}{N 位随机数字} 的运单号
func (s *ShipmentService) generateTrackingNumber() (string, error) {
	prefix := constants.TrackingNumberPrefixDefault
	digits := constants.TrackingNumberDigitsDefault
	if s.cfg != nil {
		if p := strings.TrimSpace(s.cfg.Shipment.TrackingPrefix); p != "" {
			prefix = p
		}
		if s.cfg.Shipment.TrackingDigits >= 6 && s.cfg.Shipment.TrackingDigits <= 18 {
			digits = s.cfg.Shipment.TrackingDigits
		}
	}
	var b strings.Builder
	b.Grow(len(prefix) + digits)
	b.WriteString(prefix)
	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func (s *ShipmentService) invalidateTracking(ctx context.Context, trackingNumber string) {
	if err := cache.DelTracking(ctx, trackingNumber); err != nil {
		logger.Warnw("tracking_cache_delete_failed", "tracking_number", trackingNumber, "error", err)
	}
}

// notifyStatus 推送状态通知任务，失败只记录日志
func (s *ShipmentService) notifyStatus(shipment models.Shipment, changedBy uint) {
	if s.cfg != nil && !s.cfg.Shipment.NotifyStatus {
		return
	}
	if !s.queueClient.Enabled() {
		return
	}
	err := s.queueClient.EnqueueShipmentStatus(queue.ShipmentStatusPayload{
		ShipmentID:     shipment.ID,
		TrackingNumber: shipment.TrackingNumber,
		Status:         shipment.Status,
		ChangedBy:      changedBy,
	})
	if err != nil {
		logger.Warnw("shipment_status_notify_enqueue_failed",
			"shipment_id", shipment.ID,
			"status", shipment.Status,
			"error", err,
		)
	}
}
