package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const (
	casbinTableName = "casbin_rule"
	rolePrefix      = "role:"
)

// 角色直接作为策略主体，不使用角色继承
const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

var errServiceUnavailable = errors.New("authz service unavailable")

// Policy 角色策略
type Policy struct {
	Role   string `json:"role"`
	Object string `json:"object"`
	Action string `json:"action"`
}

// Service 基于 Casbin 的角色策略服务
// 只回答某角色能否对某类资源执行某动作，运单归属由 Guard 判定
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务，策略持久化在 casbin_rule 表
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return errServiceUnavailable
	}
	return nil
}

// EnforceRole 按角色判定授权
func (s *Service) EnforceRole(role, object, action string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return false, err
	}
	return s.enforcer.Enforce(subject, NormalizeObject(object), NormalizeAction(action))
}

// GrantRolePolicy 为角色授予策略，已存在时不重复写入
func (s *Service) GrantRolePolicy(role, object, action string) error {
	p, err := normalizePolicy(role, object, action)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.enforcer.AddPolicy(p.Role, p.Object, p.Action); err != nil {
		return fmt.Errorf("grant policy %s %s %s: %w", p.Role, p.Object, p.Action, err)
	}
	return nil
}

// RevokeRolePolicy 撤销角色策略
func (s *Service) RevokeRolePolicy(role, object, action string) error {
	p, err := normalizePolicy(role, object, action)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.enforcer.RemovePolicy(p.Role, p.Object, p.Action); err != nil {
		return fmt.Errorf("revoke policy %s %s %s: %w", p.Role, p.Object, p.Action, err)
	}
	return nil
}

// RolePolicies 查询角色策略，按资源与动作排序
func (s *Service) RolePolicies(role string) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	subject, err := NormalizeRole(role)
	if err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredPolicy(0, subject)
	if err != nil {
		return nil, fmt.Errorf("get role policies: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		policies = append(policies, Policy{Role: rule[0], Object: rule[1], Action: rule[2]})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object != policies[j].Object {
			return policies[i].Object < policies[j].Object
		}
		return policies[i].Action < policies[j].Action
	})
	return policies, nil
}

// Roles 列出拥有策略的角色
func (s *Service) Roles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	subjects, err := s.enforcer.GetAllSubjects()
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		if strings.HasPrefix(subject, rolePrefix) {
			roles = append(roles, strings.TrimPrefix(subject, rolePrefix))
		}
	}
	sort.Strings(roles)
	return roles, nil
}

func normalizePolicy(role, object, action string) (Policy, error) {
	subject, err := NormalizeRole(role)
	if err != nil {
		return Policy{}, err
	}
	act := NormalizeAction(action)
	if act == "" {
		return Policy{}, errors.New("action is required")
	}
	return Policy{Role: subject, Object: NormalizeObject(object), Action: act}, nil
}

// NormalizeRole 角色名转为策略主体（role:<name>）
func NormalizeRole(role string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.TrimPrefix(name, rolePrefix)
	if name == "" {
		return "", errors.New("role is required")
	}
	return rolePrefix + name, nil
}

// NormalizeObject 资源名统一为 /xxx 形式，去掉末尾斜杠
func NormalizeObject(object string) string {
	normalized := strings.Trim(strings.TrimSpace(object), "/")
	return "/" + normalized
}

// NormalizeAction 统一授权动作
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
