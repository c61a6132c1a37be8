package authz

import (
	"fmt"

	"github.com/logiroute/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// 仅描述角色对资源的动作许可，client / personnel 的归属约束由 Guard 判定
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleAdmin,
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
		{
			Role: constants.RoleClient,
			Policies: []Policy{
				{Object: ResourceShipments, Action: ActionCreate},
				{Object: ResourceShipments, Action: ActionList},
				{Object: ResourceShipments, Action: ActionRead},
			},
		},
		{
			Role: constants.RolePersonnel,
			Policies: []Policy{
				{Object: ResourceShipments, Action: ActionList},
				{Object: ResourceShipments, Action: ActionRead},
				{Object: ResourceShipments, Action: ActionUpdateStatus},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色策略（幂等）
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("bootstrap role %s: %w", seed.Role, err)
			}
		}
	}
	return nil
}
