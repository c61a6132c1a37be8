package authz

import (
	"errors"
	"fmt"

	"github.com/logiroute/internal/constants"
)

// 受保护资源
const (
	ResourceShipments = "/shipments"
	ResourceVehicles  = "/vehicles"
	ResourcePersonnel = "/personnel"
	ResourceUsers     = "/users"
)

// 资源动作
const (
	ActionCreate       = "CREATE"
	ActionRead         = "READ"
	ActionList         = "LIST"
	ActionUpdate       = "UPDATE"
	ActionUpdateStatus = "UPDATE_STATUS"
	ActionDelete       = "DELETE"
)

// 拒绝原因
const (
	ReasonUnauthenticated   = "unauthenticated"
	ReasonRoleNotPermitted  = "role_not_permitted"
	ReasonNotOwner          = "not_owner"
	ReasonNotAssigned       = "not_assigned"
	ReasonTargetRequired    = "target_required"
	ReasonPolicyUnavailable = "policy_unavailable"
)

var (
	// ErrUnauthenticated 未登录
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden 无权限
	ErrForbidden = errors.New("forbidden")
)

// Caller 调用方身份
type Caller struct {
	UserID uint
	Role   string
}

// Anonymous 匿名调用方
func Anonymous() Caller {
	return Caller{}
}

// Authenticated 是否已登录
func (c Caller) Authenticated() bool {
	return c.UserID != 0 && c.Role != ""
}

// IsAdmin 是否管理员
func (c Caller) IsAdmin() bool {
	return c.Authenticated() && c.Role == constants.RoleAdmin
}

// ShipmentTarget 运单归属信息
type ShipmentTarget struct {
	ClientID         uint
	AssignedDriverID *uint
}

// Decision 授权结果
type Decision struct {
	Allowed bool
	Reason  string
}

// Err 将拒绝结果转换为错误，允许时返回 nil
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonUnauthenticated {
		return ErrUnauthenticated
	}
	return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Guard 统一授权判定入口
// 角色许可来自 Casbin 策略，运单归属在此判定；判定过程无副作用
type Guard struct {
	policies *Service
}

// NewGuard 创建授权守卫
func NewGuard(policies *Service) *Guard {
	return &Guard{policies: policies}
}

// AuthorizeRole 仅按角色策略判定，不涉及资源归属
// 用于在读取记录前先行拒绝，避免泄露记录是否存在
func (g *Guard) AuthorizeRole(caller Caller, resource, action string) Decision {
	if !caller.Authenticated() {
		return deny(ReasonUnauthenticated)
	}
	if g == nil || g.policies == nil {
		return deny(ReasonPolicyUnavailable)
	}
	allowed, err := g.policies.EnforceRole(caller.Role, resource, action)
	if err != nil {
		return deny(ReasonPolicyUnavailable)
	}
	if !allowed {
		return deny(ReasonRoleNotPermitted)
	}
	return allow()
}

// Authorize 判定调用方能否对资源执行动作
// target 仅对运单的单条读写有意义，LIST / CREATE 传 nil
func (g *Guard) Authorize(caller Caller, resource, action string, target *ShipmentTarget) Decision {
	if decision := g.AuthorizeRole(caller, resource, action); !decision.Allowed {
		return decision
	}
	if caller.IsAdmin() || NormalizeObject(resource) != ResourceShipments {
		return allow()
	}

	switch NormalizeAction(action) {
	case ActionCreate, ActionList:
		return allow()
	}
	if target == nil {
		return deny(ReasonTargetRequired)
	}
	switch caller.Role {
	case constants.RoleClient:
		if target.ClientID != caller.UserID {
			return deny(ReasonNotOwner)
		}
		return allow()
	case constants.RolePersonnel:
		if target.AssignedDriverID == nil || *target.AssignedDriverID != caller.UserID {
			return deny(ReasonNotAssigned)
		}
		return allow()
	default:
		return deny(ReasonRoleNotPermitted)
	}
}

// ShipmentScope 运单列表可见范围
type ShipmentScope struct {
	All      bool
	ClientID uint
	DriverID uint
}

// ShipmentScope 计算调用方可见的运单范围
func (g *Guard) ShipmentScope(caller Caller) (ShipmentScope, error) {
	if err := g.Authorize(caller, ResourceShipments, ActionList, nil).Err(); err != nil {
		return ShipmentScope{}, err
	}
	switch caller.Role {
	case constants.RoleAdmin:
		return ShipmentScope{All: true}, nil
	case constants.RoleClient:
		return ShipmentScope{ClientID: caller.UserID}, nil
	case constants.RolePersonnel:
		return ShipmentScope{DriverID: caller.UserID}, nil
	default:
		return ShipmentScope{}, fmt.Errorf("%w: %s", ErrForbidden, ReasonRoleNotPermitted)
	}
}
