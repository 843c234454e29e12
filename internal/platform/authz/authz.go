package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	// ObjectTeam はチーム参照 API を表すオブジェクトです。
	ObjectTeam = "team"
	// ActionRead は参照系の操作です。
	ActionRead = "read"
)

const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// Authorizer はロール単位でチーム参照 API の利用可否を判定します。
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// NewAuthorizer は許可ロールの一覧からポリシーを構築します。
func NewAuthorizer(roles []string) (*Authorizer, error) {
	if len(roles) == 0 {
		return nil, errors.New("authz: at least one role is required")
	}

	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("authz: load model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: new enforcer: %w", err)
	}

	for _, role := range roles {
		if strings.TrimSpace(role) == "" {
			continue
		}
		if _, err := enforcer.AddPolicy(SubjectFromRole(role), ObjectTeam, ActionRead); err != nil {
			return nil, fmt.Errorf("authz: add policy for %s: %w", role, err)
		}
	}

	return &Authorizer{enforcer: enforcer}, nil
}

// SubjectFromRole はロール名を casbin のサブジェクトへ変換します。
func SubjectFromRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = "anonymous"
	}
	return "role:" + role
}

// CanReadTeam は role がチームデータを参照できるかを返します。
func (a *Authorizer) CanReadTeam(role string) (bool, error) {
	ok, err := a.enforcer.Enforce(SubjectFromRole(role), ObjectTeam, ActionRead)
	if err != nil {
		return false, fmt.Errorf("authz: enforce: %w", err)
	}
	return ok, nil
}
